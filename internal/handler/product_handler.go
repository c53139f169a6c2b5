package handler

import (
	"errors"
	"log"
	"mime/multipart"
	"path/filepath"

	"go-agrimarket/internal/service"
	"go-agrimarket/pkg/blob"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productService service.ProductService
	blobStore      blob.Store
}

func NewProductHandler(productService service.ProductService, blobStore blob.Store) *ProductHandler {
	return &ProductHandler{productService: productService, blobStore: blobStore}
}

// Helper to get the authenticated user ID from context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return ""
	}
	return userID.(string)
}

func getOwnerID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(getUserID(c))
}

// storeImage uploads an attached image and returns its blob key, or nil when
// no image was part of the request
func (h *ProductHandler) storeImage(c *fiber.Ctx, file *multipart.FileHeader) (*string, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	key := uuid.New().String() + filepath.Ext(file.Filename)
	if err := h.blobStore.Put(c.Context(), key, f, file.Size, file.Header.Get("Content-Type")); err != nil {
		return nil, err
	}
	return &key, nil
}

func (h *ProductHandler) parseRequest(c *fiber.Ctx) (*service.ProductRequest, *string, error) {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, nil, errors.New("invalid request body")
	}

	var imageKey *string
	if file, err := c.FormFile("image"); err == nil && file != nil {
		if h.blobStore == nil {
			return nil, nil, errors.New("image uploads are not available")
		}
		key, err := h.storeImage(c, file)
		if err != nil {
			log.Printf("Warning: image upload failed: %v", err)
			return nil, nil, errors.New("failed to store image")
		}
		imageKey = key
	}

	return &req, imageKey, nil
}

// CreateProduct lists a new product for the calling farmer
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	ownerID, err := getOwnerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	req, imageKey, err := h.parseRequest(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	product, err := h.productService.CreateProduct(req, ownerID, imageKey)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product added successfully", "data": product.ToResponse()})
}

// UpdateProduct edits one of the calling farmer's products
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	ownerID, err := getOwnerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	req, imageKey, err := h.parseRequest(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	product, err := h.productService.UpdateProduct(productID, req, ownerID, imageKey)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product updated successfully", "data": product.ToResponse()})
}

// DeleteProduct removes one of the calling farmer's products
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	ownerID, err := getOwnerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.productService.DeleteProduct(productID, ownerID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete product"})
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// MyProducts lists the calling farmer's own products
// GET /api/v1/products/mine
func (h *ProductHandler) MyProducts(c *fiber.Ctx) error {
	ownerID, err := getOwnerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	products, err := h.productService.ListByOwner(ownerID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

// SearchProducts runs the free-text filter over the whole catalog
// GET /api/v1/products/search?term=
func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	term := c.Query("term")

	products, err := h.productService.Search(term)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{
		"term":     term,
		"products": products,
	})
}
