// Package http provides the HTTP handlers and router of the shop API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/brownies/internal/service"
	"go.uber.org/zap"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Signup registers a new user.
	Signup(ctx context.Context, in service.SignupInput) error
	// Login verifies credentials and returns a session token.
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler handles HTTP requests for user signup and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Logger records unexpected failures. May be nil.
	Logger *zap.Logger
}

// SignupRequest represents the JSON payload for user signup.
type SignupRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	Name            string `json:"name"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// Signup handles POST /signup.
// It answers 201 on success, 409 if the username is taken, 400 if the
// password confirmation differs or required fields are missing, and 500
// if the password cannot be hashed or the user cannot be stored.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := h.AuthService.Signup(r.Context(), service.SignupInput{
		Username:        req.Username,
		Name:            req.Name,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	switch {
	case err == nil:
		respondMessage(w, http.StatusCreated, "user created")
	case errors.Is(err, service.ErrUserExists):
		respondMessage(w, http.StatusConflict, "user already exists")
	case errors.Is(err, service.ErrPasswordMismatch):
		respondMessage(w, http.StatusBadRequest, "password and confirmation do not match")
	case errors.Is(err, service.ErrHashPassword):
		respondMessage(w, http.StatusInternalServerError, "failed to hash password")
	default:
		respondInternal(w, r, h.Logger, "signup failed", err)
	}
}

// Login handles POST /login.
// It answers 200 with {"token": ...} on success and 401 with the same
// message whether the user is unknown or the password is wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		respondMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	token, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, TokenResponse{Token: token})
	case errors.Is(err, service.ErrInvalidCredentials):
		respondMessage(w, http.StatusUnauthorized, "invalid username or password")
	default:
		respondInternal(w, r, h.Logger, "login failed", err)
	}
}
