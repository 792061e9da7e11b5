package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/brownies/internal/models"
	"go.uber.org/zap"
)

// CatalogService defines the catalog operations required by ProductHandler.
type CatalogService interface {
	CreateProduct(ctx context.Context, name, description string, price float64) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// ProductHandler handles product registration and listing.
type ProductHandler struct {
	CatalogService CatalogService
	Logger         *zap.Logger
}

// CreateProductRequest represents the JSON payload of POST /products.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Create handles POST /products and returns the stored product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	product, err := h.CatalogService.CreateProduct(r.Context(), req.Name, req.Description, req.Price)
	if err != nil {
		respondInternal(w, r, h.Logger, "create product failed", err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// List handles GET /products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.CatalogService.ListProducts(r.Context())
	if err != nil {
		respondInternal(w, r, h.Logger, "list products failed", err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}
