package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/brownies/internal/models"
	"github.com/atinyakov/brownies/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	FindUserFunc func(ctx context.Context, username string) (*models.User, error)
	AddUserFunc  func(ctx context.Context, user models.User) error
}

func (m *mockUserRepo) FindUser(ctx context.Context, username string) (*models.User, error) {
	return m.FindUserFunc(ctx, username)
}

func (m *mockUserRepo) AddUser(ctx context.Context, user models.User) error {
	return m.AddUserFunc(ctx, user)
}

func notFound(ctx context.Context, username string) (*models.User, error) {
	return nil, repository.ErrUserNotFound
}

func testOptions() AuthOptions {
	return AuthOptions{Secret: []byte("test-secret"), TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost}
}

func newFileBackedService(t *testing.T) (*AuthService, *repository.FileUserRepository) {
	repo := repository.NewFileUserRepository(filepath.Join(t.TempDir(), "users.json"))
	return NewAuthService(repo, testOptions()), repo
}

func TestSignup_Success(t *testing.T) {
	var saved models.User
	repo := &mockUserRepo{
		FindUserFunc: notFound,
		AddUserFunc: func(ctx context.Context, user models.User) error {
			saved = user
			return nil
		},
	}
	svc := NewAuthService(repo, testOptions())

	err := svc.Signup(context.Background(), SignupInput{
		Username: "alice", Name: "Alice", Password: "pw", ConfirmPassword: "pw",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", saved.Username)
	assert.Equal(t, "Alice", saved.Name)
	assert.NotEqual(t, "pw", saved.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("pw")))
}

func TestSignup_DefaultCostIsTen(t *testing.T) {
	var saved models.User
	repo := &mockUserRepo{
		FindUserFunc: notFound,
		AddUserFunc: func(ctx context.Context, user models.User) error {
			saved = user
			return nil
		},
	}
	svc := NewAuthService(repo, AuthOptions{Secret: []byte("s")})

	require.NoError(t, svc.Signup(context.Background(), SignupInput{Username: "a", Password: "p", ConfirmPassword: "p"}))

	cost, err := bcrypt.Cost([]byte(saved.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}

func TestSignup_Errors(t *testing.T) {
	lookupErr := errors.New("disk on fire")
	saveErr := errors.New("disk full")

	tests := []struct {
		name    string
		repo    *mockUserRepo
		opts    AuthOptions
		in      SignupInput
		wantErr error
	}{
		{
			name: "user exists",
			repo: &mockUserRepo{FindUserFunc: func(ctx context.Context, username string) (*models.User, error) {
				return &models.User{Username: username}, nil
			}},
			in:      SignupInput{Username: "bob", Password: "a", ConfirmPassword: "b"},
			wantErr: ErrUserExists,
		},
		{
			name:    "password mismatch",
			repo:    &mockUserRepo{FindUserFunc: notFound},
			in:      SignupInput{Username: "bob", Password: "secret", ConfirmPassword: "Secret"},
			wantErr: ErrPasswordMismatch,
		},
		{
			name:    "hash failure",
			repo:    &mockUserRepo{FindUserFunc: notFound},
			opts:    AuthOptions{Secret: []byte("s"), BcryptCost: bcrypt.MaxCost + 1},
			in:      SignupInput{Username: "bob", Password: "pw", ConfirmPassword: "pw"},
			wantErr: ErrHashPassword,
		},
		{
			name: "lookup failure",
			repo: &mockUserRepo{FindUserFunc: func(ctx context.Context, username string) (*models.User, error) {
				return nil, lookupErr
			}},
			in:      SignupInput{Username: "bob", Password: "pw", ConfirmPassword: "pw"},
			wantErr: lookupErr,
		},
		{
			name: "lost race",
			repo: &mockUserRepo{FindUserFunc: notFound, AddUserFunc: func(ctx context.Context, user models.User) error {
				return repository.ErrUserExists
			}},
			in:      SignupInput{Username: "bob", Password: "pw", ConfirmPassword: "pw"},
			wantErr: ErrUserExists,
		},
		{
			name: "save failure",
			repo: &mockUserRepo{FindUserFunc: notFound, AddUserFunc: func(ctx context.Context, user models.User) error {
				return saveErr
			}},
			in:      SignupInput{Username: "bob", Password: "pw", ConfirmPassword: "pw"},
			wantErr: saveErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			if opts.Secret == nil {
				opts = testOptions()
			}
			svc := NewAuthService(tt.repo, opts)

			err := svc.Signup(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSignupThenLogin(t *testing.T) {
	svc, _ := newFileBackedService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, SignupInput{Username: "carol", Name: "Carol", Password: "pa55", ConfirmPassword: "pa55"}))

	token, err := svc.Login(ctx, "carol", "pa55")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "carol", claims.Username)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestSignup_DuplicateLeavesStoreUnchanged(t *testing.T) {
	svc, repo := newFileBackedService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, SignupInput{Username: "dave", Name: "D1", Password: "x", ConfirmPassword: "x"}))
	before, err := repo.GetUsers(ctx)
	require.NoError(t, err)

	err = svc.Signup(ctx, SignupInput{Username: "dave", Name: "D2", Password: "y", ConfirmPassword: "y"})
	assert.ErrorIs(t, err, ErrUserExists)

	after, err := repo.GetUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLogin_InvalidCredentialsIndistinguishable(t *testing.T) {
	svc, _ := newFileBackedService(t)
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, SignupInput{Username: "erin", Password: "right", ConfirmPassword: "right"}))

	_, errWrongPassword := svc.Login(ctx, "erin", "wrong")
	_, errUnknownUser := svc.Login(ctx, "nobody", "right")

	assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownUser, ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
}

func TestLogin_CorruptHash(t *testing.T) {
	repo := &mockUserRepo{FindUserFunc: func(ctx context.Context, username string) (*models.User, error) {
		return &models.User{Username: username, PasswordHash: "not-a-hash"}, nil
	}}
	svc := NewAuthService(repo, testOptions())

	_, err := svc.Login(context.Background(), "frank", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RepositoryError(t *testing.T) {
	repoErr := errors.New("read failed")
	repo := &mockUserRepo{FindUserFunc: func(ctx context.Context, username string) (*models.User, error) {
		return nil, repoErr
	}}
	svc := NewAuthService(repo, testOptions())

	_, err := svc.Login(context.Background(), "frank", "pw")
	assert.ErrorIs(t, err, repoErr)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseToken_Expiry(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, testOptions())
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.IssueToken("gina")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	user, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "gina", user)

	svc.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = svc.Authenticate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Rejects(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, testOptions())

	other := NewAuthService(&mockUserRepo{}, AuthOptions{Secret: []byte("other-secret")})
	foreign, err := other.IssueToken("henry")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Username: "henry",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "henry"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":        "not.a.token",
		"empty":          "",
		"foreign secret": foreign,
		"alg none":       unsigned,
		"no expiry":      noExpiry,
		"bearer prefix":  "Bearer " + foreign,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestIssueToken_PayloadFields(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, testOptions())
	token, err := svc.IssueToken("ivy")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"username":"ivy"`)
	assert.Contains(t, string(payload), `"iat":`)
	assert.Contains(t, string(payload), `"exp":`)
}
