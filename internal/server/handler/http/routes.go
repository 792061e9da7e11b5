package http

import (
	"net/http"

	"github.com/atinyakov/brownies/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterOptions selects which of the optionally protected routes sit
// behind the token gate.
type RouterOptions struct {
	// RequireAuthProducts protects POST /products.
	RequireAuthProducts bool
	// RequireAuthCheckout protects POST /cart/{userID}/checkout.
	RequireAuthCheckout bool
}

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth     *AuthHandler
	Products *ProductHandler
	Cart     *CartHandler
}

// NewRouter constructs and returns an HTTP handler that serves
// the shop API.
//
// Routes:
//
//	POST /signup                  → Auth.Signup
//	POST /login                   → Auth.Login
//	POST /products                → Products.Create (token gate if RequireAuthProducts)
//	GET  /products                → Products.List
//	POST /cart/{userID}           → Cart.Add (token gate)
//	GET  /cart/{userID}           → Cart.Get (token gate)
//	POST /cart/{userID}/checkout  → Cart.Checkout (token gate if RequireAuthCheckout)
//	GET  /health                  → liveness probe
//
// Middleware chain (applied in order):
//  1. Recoverer: panics become 500s
//  2. RequestID: assigns X-Request-ID
//  3. WithRequestLogging(logger): logs incoming requests
//  4. AllowContentType("application/json"): rejects non-JSON bodies
func NewRouter(
	h Handlers,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
	opts RouterOptions,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	// Requests with a body must be JSON
	r.Use(chiMiddleware.AllowContentType("application/json"))

	authenticate := middleware.TokenAuth(verifier)

	// gated wraps fn with the token gate when protect is set.
	gated := func(protect bool, fn http.HandlerFunc) http.Handler {
		if protect {
			return authenticate(fn)
		}
		return fn
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public endpoints
	r.Post("/signup", h.Auth.Signup)
	r.Post("/login", h.Auth.Login)
	r.Get("/products", h.Products.List)
	r.Method(http.MethodPost, "/products", gated(opts.RequireAuthProducts, h.Products.Create))

	r.Route("/cart/{userID}", func(r chi.Router) {
		r.Method(http.MethodPost, "/checkout", gated(opts.RequireAuthCheckout, h.Cart.Checkout))

		// Protected group: requires a valid session token
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", h.Cart.Add)
			r.Get("/", h.Cart.Get)
		})
	})

	return r
}
