// Package service provides the shop's business logic: authentication,
// the product catalog and shopping carts, delegating persistence to
// repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/brownies/internal/models"
	"github.com/atinyakov/brownies/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists is returned by Signup when the username is taken.
	ErrUserExists = repository.ErrUserExists
	// ErrPasswordMismatch is returned by Signup when the password and its
	// confirmation differ.
	ErrPasswordMismatch = errors.New("password and confirmation do not match")
	// ErrHashPassword is returned by Signup when the password cannot be hashed.
	ErrHashPassword = errors.New("failed to hash password")
	// ErrInvalidCredentials is returned by Login for an unknown user and for
	// a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken is returned by ParseToken for malformed, badly signed
	// or expired tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// UserRepository defines the persistence operations
// required by the authentication service.
type UserRepository interface {
	// FindUser returns the user with the given username,
	// or repository.ErrUserNotFound.
	FindUser(ctx context.Context, username string) (*models.User, error)
	// AddUser stores a new user, or returns repository.ErrUserExists.
	AddUser(ctx context.Context, user models.User) error
}

// Claims is the payload of a session token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SignupInput carries the fields of a signup request.
type SignupInput struct {
	Username        string
	Name            string
	Password        string
	ConfirmPassword string
}

// AuthOptions configures token signing and password hashing.
type AuthOptions struct {
	// Secret signs and verifies session tokens (HS256).
	Secret []byte
	// TokenTTL is the lifetime of an issued token.
	TokenTTL time.Duration
	// BcryptCost is the bcrypt cost factor.
	BcryptCost int
}

// AuthService implements signup, login and session token verification.
type AuthService struct {
	repo UserRepository
	opts AuthOptions
	now  func() time.Time
}

// NewAuthService constructs an AuthService using the provided repository.
// Zero-valued options fall back to a one hour TTL and bcrypt.DefaultCost.
func NewAuthService(repo UserRepository, opts AuthOptions) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, opts: opts, now: time.Now}
}

// Signup registers a new user. The checks run in order: duplicate
// username (ErrUserExists), password confirmation (ErrPasswordMismatch),
// hashing (ErrHashPassword). It returns only after the user is persisted.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) error {
	_, err := s.repo.FindUser(ctx, in.Username)
	switch {
	case err == nil:
		return ErrUserExists
	case !errors.Is(err, repository.ErrUserNotFound):
		return fmt.Errorf("lookup user: %w", err)
	}

	if in.Password != in.ConfirmPassword {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHashPassword, err)
	}

	// AddUser re-checks the username under its lock; a concurrent signup
	// may have won the race since FindUser.
	if err := s.repo.AddUser(ctx, models.User{
		Username:     in.Username,
		Name:         in.Name,
		PasswordHash: string(hash),
	}); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return ErrUserExists
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Login verifies the credentials and returns a signed session token.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.FindUser(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.IssueToken(username)
}

// IssueToken signs a token for username valid for the configured TTL.
func (s *AuthService) IssueToken(username string) (string, error) {
	now := s.now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.opts.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies the signature and expiry of a session token and
// returns its claims. Any failure is reported as ErrInvalidToken.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.opts.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate implements middleware.TokenVerifier.
func (s *AuthService) Authenticate(tokenString string) (string, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}
