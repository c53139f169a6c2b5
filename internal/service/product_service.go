package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-agrimarket/internal/model"
	"go-agrimarket/internal/repository"
	"go-agrimarket/internal/search"
	"go-agrimarket/internal/ws"
	"go-agrimarket/pkg/blob"
	"go-agrimarket/pkg/validator"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

type ProductService interface {
	CreateProduct(req *ProductRequest, ownerID uuid.UUID, imageKey *string) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *ProductRequest, ownerID uuid.UUID, imageKey *string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, ownerID uuid.UUID) error
	ListByOwner(ownerID uuid.UUID) ([]model.ProductResponse, error)
	Search(term string) ([]model.ProductResponse, error)
}

type ProductRequest struct {
	Name           string  `json:"name" validate:"required,min=3,max=100"`
	Description    string  `json:"description" validate:"required"`
	Price          float64 `json:"price" validate:"required,gt=0"`
	Category       string  `json:"category" validate:"required"`
	ProductionDate string  `json:"production_date" validate:"required"` // Format: YYYY-MM-DD
}

type productService struct {
	productRepo repository.ProductRepository
	blobStore   blob.Store
	wsHub       *ws.Hub
}

func NewProductService(productRepo repository.ProductRepository, blobStore blob.Store, hub *ws.Hub) ProductService {
	return &productService{
		productRepo: productRepo,
		blobStore:   blobStore,
		wsHub:       hub,
	}
}

func (s *productService) validate(req *ProductRequest) (time.Time, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return time.Time{}, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	productionDate, err := time.Parse("2006-01-02", req.ProductionDate)
	if err != nil {
		return time.Time{}, errors.New("invalid production_date format, use YYYY-MM-DD")
	}
	return productionDate, nil
}

func (s *productService) CreateProduct(req *ProductRequest, ownerID uuid.UUID, imageKey *string) (*model.Product, error) {
	productionDate, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Category:       req.Category,
		ProductionDate: productionDate,
		ImageKey:       imageKey,
		UserID:         ownerID,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.wsHub.Publish(map[string]interface{}{
		"type":    "product_created",
		"product": map[string]interface{}{"id": product.ID, "name": product.Name, "price": product.Price},
		"message": fmt.Sprintf("Product '%s' listed", product.Name),
	})

	return product, nil
}

func (s *productService) UpdateProduct(id uuid.UUID, req *ProductRequest, ownerID uuid.UUID, imageKey *string) (*model.Product, error) {
	productionDate, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	// Ownership check: a farmer can only touch their own products, anything
	// else looks like a missing product to them
	existing, err := s.productRepo.FindByID(id)
	if err != nil || existing.UserID != ownerID {
		return nil, ErrProductNotFound
	}

	oldImageKey := existing.ImageKey

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Category = req.Category
	existing.ProductionDate = productionDate
	if imageKey != nil {
		existing.ImageKey = imageKey
	}

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	// Release the replaced image after the new handle is persisted
	if imageKey != nil && oldImageKey != nil {
		s.releaseImage(*oldImageKey)
	}

	return existing, nil
}

func (s *productService) DeleteProduct(id uuid.UUID, ownerID uuid.UUID) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil || product.UserID != ownerID {
		return ErrProductNotFound
	}

	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	if product.ImageKey != nil {
		s.releaseImage(*product.ImageKey)
	}

	s.wsHub.Publish(map[string]interface{}{
		"type":    "product_deleted",
		"product": map[string]interface{}{"id": product.ID, "name": product.Name},
		"message": fmt.Sprintf("Product '%s' removed", product.Name),
	})

	return nil
}

// releaseImage drops an orphaned image handle. Failures are logged, the
// product mutation has already succeeded.
func (s *productService) releaseImage(key string) {
	if s.blobStore == nil {
		return
	}
	if err := s.blobStore.Delete(context.Background(), key); err != nil {
		log.Printf("Warning: failed to release image %s: %v", key, err)
	}
}

func (s *productService) ListByOwner(ownerID uuid.UUID) ([]model.ProductResponse, error) {
	products, err := s.productRepo.FindByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return toResponses(products), nil
}

// Search runs the free-text catalog filter over all products
func (s *productService) Search(term string) ([]model.ProductResponse, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return toResponses(search.Resolve(term, products)), nil
}

func toResponses(products []model.Product) []model.ProductResponse {
	responses := make([]model.ProductResponse, len(products))
	for i := range products {
		responses[i] = products[i].ToResponse()
	}
	return responses
}
