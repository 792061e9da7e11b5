package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/brownies/internal/middleware"
	"github.com/atinyakov/brownies/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CartService defines the cart operations required by CartHandler.
type CartService interface {
	AddToCart(ctx context.Context, userID, productID string, quantity int) error
	GetCart(ctx context.Context, userID string) (models.Cart, error)
	Checkout(ctx context.Context, userID string) error
}

// CartHandler handles the /cart/{userID} endpoints.
type CartHandler struct {
	CartService CartService
	Logger      *zap.Logger
	// EnforceOwner rejects requests whose authenticated username differs
	// from the {userID} path parameter. Requests without an authenticated
	// user are not checked.
	EnforceOwner bool
}

// AddToCartRequest represents the JSON payload of POST /cart/{userID}.
type AddToCartRequest struct {
	ProductID models.ProductRef `json:"productId"`
	Quantity  int               `json:"quantity"`
}

// userID returns the {userID} path parameter, or writes 403 and returns
// false when owner enforcement rejects the request.
func (h *CartHandler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userID")
	if h.EnforceOwner {
		if user := middleware.GetUsernameFromContext(r.Context()); user != "" && user != userID {
			respondMessage(w, http.StatusForbidden, "access to another user's cart is not allowed")
			return "", false
		}
	}
	return userID, true
}

// Add handles POST /cart/{userID}.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.CartService.AddToCart(r.Context(), userID, string(req.ProductID), req.Quantity); err != nil {
		respondInternal(w, r, h.Logger, "add to cart failed", err)
		return
	}
	respondMessage(w, http.StatusOK, "Product added to cart")
}

// Get handles GET /cart/{userID}.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	cart, err := h.CartService.GetCart(r.Context(), userID)
	if err != nil {
		respondInternal(w, r, h.Logger, "get cart failed", err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// Checkout handles POST /cart/{userID}/checkout.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.CartService.Checkout(r.Context(), userID); err != nil {
		respondInternal(w, r, h.Logger, "checkout failed", err)
		return
	}
	respondMessage(w, http.StatusOK, "Cart checked out")
}
