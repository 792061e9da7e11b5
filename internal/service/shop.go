package service

import (
	"context"

	"github.com/atinyakov/brownies/internal/models"
)

// CatalogRepository defines the persistence operations needed by the CatalogService.
type CatalogRepository interface {
	// CreateProduct stores a product and returns it with its assigned ID.
	CreateProduct(ctx context.Context, name, description string, price float64) (models.Product, error)
	// ListProducts returns all products in creation order.
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// CatalogService implements product registration.
type CatalogService struct {
	repo CatalogRepository
}

// NewCatalogService constructs a CatalogService with the provided repository.
func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// CreateProduct registers a product. Price and name are not validated.
func (s *CatalogService) CreateProduct(ctx context.Context, name, description string, price float64) (models.Product, error) {
	return s.repo.CreateProduct(ctx, name, description, price)
}

// ListProducts returns the catalog.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.ListProducts(ctx)
}

// CartRepository defines the persistence operations needed by the CartService.
type CartRepository interface {
	AddToCart(ctx context.Context, userID, productID string, quantity int) error
	GetCart(ctx context.Context, userID string) (models.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// CartService implements the per-user shopping cart.
type CartService struct {
	repo CartRepository
}

// NewCartService constructs a CartService with the provided repository.
func NewCartService(repo CartRepository) *CartService {
	return &CartService{repo: repo}
}

// AddToCart adds quantity of productID to the user's cart.
// Product IDs are not checked against the catalog.
func (s *CartService) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	return s.repo.AddToCart(ctx, userID, productID, quantity)
}

// GetCart returns the user's cart; a user without a cart gets an empty one.
func (s *CartService) GetCart(ctx context.Context, userID string) (models.Cart, error) {
	return s.repo.GetCart(ctx, userID)
}

// Checkout empties the user's cart.
func (s *CartService) Checkout(ctx context.Context, userID string) error {
	return s.repo.ClearCart(ctx, userID)
}
