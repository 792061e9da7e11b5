package repository

import (
	"context"
	"sync"

	"github.com/atinyakov/brownies/internal/models"
)

// MemoryCatalog is an append-only, in-memory product list.
// Its contents live for the lifetime of the process.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewMemoryCatalog creates an empty catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{}
}

// CreateProduct appends a product with ID = number of products + 1
// and returns the stored record.
func (c *MemoryCatalog) CreateProduct(ctx context.Context, name, description string, price float64) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := models.Product{
		ID:          len(c.products) + 1,
		Name:        name,
		Description: description,
		Price:       price,
	}
	c.products = append(c.products, p)
	return p, nil
}

// ListProducts returns a snapshot of all products in creation order.
func (c *MemoryCatalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}
