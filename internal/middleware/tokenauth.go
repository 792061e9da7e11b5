// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier checks a session token and returns the username it was issued to.
type TokenVerifier interface {
	Authenticate(token string) (string, error)
}

// TokenAuth returns a middleware that enforces session token authentication.
//
// The token is read verbatim from the Authorization header. A request
// without the header is rejected with 401 Unauthorized; a request whose
// token fails verification (bad signature, expired, malformed) is rejected
// with 403 Forbidden. On success the username is stored in the request
// context, see GetUsernameFromContext.
func TokenAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if token == "" {
				writeMessage(w, http.StatusUnauthorized, "authentication token not provided")
				return
			}

			username, err := verifier.Authenticate(token)
			if err != nil {
				writeMessage(w, http.StatusForbidden, "invalid authentication token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUsernameFromContext extracts the authenticated username from the
// request context. Returns an empty string if not found.
func GetUsernameFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// WithUsername returns a copy of ctx carrying username as the authenticated user.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userKey, username)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
