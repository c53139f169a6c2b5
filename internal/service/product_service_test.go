package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"go-agrimarket/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeProductRepo is an in-memory ProductRepository
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uuid.UUID]*model.Product{}}
}

func (f *fakeProductRepo) Create(product *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product.ID = uuid.New()
	copied := *product
	f.products[product.ID] = &copied
	return nil
}

func (f *fakeProductRepo) FindAll() ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) FindByOwner(ownerID uuid.UUID) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Product
	for _, p := range f.products {
		if p.UserID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Update(product *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *product
	f.products[product.ID] = &copied
	return nil
}

func (f *fakeProductRepo) Delete(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

// fakeBlobStore records released keys
type fakeBlobStore struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func validProductRequest() *ProductRequest {
	return &ProductRequest{
		Name:           "Sweet Potatoes",
		Description:    "Organic sweet potatoes",
		Price:          25.5,
		Category:       "Vegetables",
		ProductionDate: "2024-03-10",
	}
}

func strPtr(s string) *string { return &s }

func TestCreateProductSetsOwnerAndDate(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo, &fakeBlobStore{}, nil)
	owner := uuid.New()

	product, err := svc.CreateProduct(validProductRequest(), owner, strPtr("img-1.jpg"))
	require.NoError(t, err)

	assert.Equal(t, owner, product.UserID)
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), product.ProductionDate)
	require.NotNil(t, product.ImageKey)
	assert.Equal(t, "img-1.jpg", *product.ImageKey)
	assert.Len(t, repo.products, 1)
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(), &fakeBlobStore{}, nil)

	req := validProductRequest()
	req.Price = 0
	_, err := svc.CreateProduct(req, uuid.New(), nil)
	assert.Error(t, err)

	req = validProductRequest()
	req.ProductionDate = "10/03/2024"
	_, err = svc.CreateProduct(req, uuid.New(), nil)
	assert.Error(t, err)

	req = validProductRequest()
	req.Name = "ab"
	_, err = svc.CreateProduct(req, uuid.New(), nil)
	assert.Error(t, err)
}

func TestUpdateProductRejectsNonOwner(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo, &fakeBlobStore{}, nil)
	owner := uuid.New()

	product, err := svc.CreateProduct(validProductRequest(), owner, nil)
	require.NoError(t, err)

	req := validProductRequest()
	req.Name = "Hijacked Potatoes"
	_, err = svc.UpdateProduct(product.ID, req, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrProductNotFound)

	stored, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sweet Potatoes", stored.Name)
}

func TestUpdateProductReplacingImageReleasesOldHandle(t *testing.T) {
	repo := newFakeProductRepo()
	blobStore := &fakeBlobStore{}
	svc := NewProductService(repo, blobStore, nil)
	owner := uuid.New()

	product, err := svc.CreateProduct(validProductRequest(), owner, strPtr("old.jpg"))
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(product.ID, validProductRequest(), owner, strPtr("new.jpg"))
	require.NoError(t, err)

	require.NotNil(t, updated.ImageKey)
	assert.Equal(t, "new.jpg", *updated.ImageKey)
	assert.Equal(t, []string{"old.jpg"}, blobStore.deleted)
}

func TestUpdateProductWithoutImageKeepsCurrent(t *testing.T) {
	repo := newFakeProductRepo()
	blobStore := &fakeBlobStore{}
	svc := NewProductService(repo, blobStore, nil)
	owner := uuid.New()

	product, err := svc.CreateProduct(validProductRequest(), owner, strPtr("keep.jpg"))
	require.NoError(t, err)

	req := validProductRequest()
	req.Price = 30
	updated, err := svc.UpdateProduct(product.ID, req, owner, nil)
	require.NoError(t, err)

	require.NotNil(t, updated.ImageKey)
	assert.Equal(t, "keep.jpg", *updated.ImageKey)
	assert.Empty(t, blobStore.deleted)
}

func TestDeleteProductReleasesImage(t *testing.T) {
	repo := newFakeProductRepo()
	blobStore := &fakeBlobStore{}
	svc := NewProductService(repo, blobStore, nil)
	owner := uuid.New()

	product, err := svc.CreateProduct(validProductRequest(), owner, strPtr("gone.jpg"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(product.ID, owner))
	assert.Empty(t, repo.products)
	assert.Equal(t, []string{"gone.jpg"}, blobStore.deleted)
}

func TestDeleteProductRejectsNonOwner(t *testing.T) {
	repo := newFakeProductRepo()
	blobStore := &fakeBlobStore{}
	svc := NewProductService(repo, blobStore, nil)

	product, err := svc.CreateProduct(validProductRequest(), uuid.New(), strPtr("safe.jpg"))
	require.NoError(t, err)

	err = svc.DeleteProduct(product.ID, uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Len(t, repo.products, 1)
	assert.Empty(t, blobStore.deleted)
}

func TestSearchDelegatesToResolver(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo, &fakeBlobStore{}, nil)
	owner := uuid.New()

	_, err := svc.CreateProduct(validProductRequest(), owner, nil)
	require.NoError(t, err)

	other := validProductRequest()
	other.Name = "Honey Jar"
	other.Description = "Raw wildflower honey"
	other.ProductionDate = "2005-05-15"
	_, err = svc.CreateProduct(other, owner, nil)
	require.NoError(t, err)

	got, err := svc.Search("honey")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Honey Jar", got[0].Name)

	all, err := svc.Search("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest production date first
	assert.Equal(t, "Sweet Potatoes", all[0].Name)
}
