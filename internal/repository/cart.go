package repository

import (
	"context"
	"sync"

	"github.com/atinyakov/brownies/internal/models"
)

// MemoryCartRepository keeps one cart per user identifier in memory.
type MemoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string]models.Cart // userID -> productID -> quantity
}

// NewMemoryCartRepository creates a repository with no carts.
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{carts: make(map[string]models.Cart)}
}

// AddToCart adds quantity to the user's entry for productID, creating the
// cart and the entry on first use. Quantities are not bounded.
func (r *MemoryCartRepository) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		cart = make(models.Cart)
		r.carts[userID] = cart
	}
	cart[productID] += quantity
	return nil
}

// GetCart returns a copy of the user's cart, or an empty cart if none exists.
func (r *MemoryCartRepository) GetCart(ctx context.Context, userID string) (models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(models.Cart, len(r.carts[userID]))
	for id, qty := range r.carts[userID] {
		out[id] = qty
	}
	return out, nil
}

// ClearCart resets the user's cart to empty.
func (r *MemoryCartRepository) ClearCart(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[userID] = make(models.Cart)
	return nil
}
