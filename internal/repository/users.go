// Package repository provides persistence implementations for users,
// the product catalog and shopping carts.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/atinyakov/brownies/internal/models"
)

var (
	// ErrUserExists is returned when a username is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when no user has the requested username.
	ErrUserNotFound = errors.New("user not found")
)

// FileUserRepository keeps all users in a single JSON file holding an array
// of user records. Every mutation rewrites the whole file.
type FileUserRepository struct {
	// Path is the location of the users file.
	Path string

	mu sync.Mutex
}

// NewFileUserRepository creates a FileUserRepository backed by path.
// The file is created on the first write.
func NewFileUserRepository(path string) *FileUserRepository {
	return &FileUserRepository{Path: path}
}

// GetUsers reads and parses the users file.
// A missing file means no users yet and yields an empty slice.
func (r *FileUserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.User{}, nil
		}
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// SaveUsers serializes the full collection and replaces the users file.
// The data is written to a temporary file in the same directory and then
// renamed over the existing one.
func (r *FileUserRepository) SaveUsers(ctx context.Context, users []models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if users == nil {
		users = []models.User{}
	}

	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.Path), filepath.Base(r.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp users file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close users file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.Path); err != nil {
		return fmt.Errorf("replace users file: %w", err)
	}
	return nil
}

// FindUser returns the user registered under username or ErrUserNotFound.
func (r *FileUserRepository) FindUser(ctx context.Context, username string) (*models.User, error) {
	users, err := r.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// AddUser appends user to the collection and persists it.
// The read-modify-write sequence is serialized so concurrent signups
// cannot drop each other's records. Returns ErrUserExists on a duplicate
// username, leaving the file untouched.
func (r *FileUserRepository) AddUser(ctx context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.GetUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Username == user.Username {
			return ErrUserExists
		}
	}

	return r.SaveUsers(ctx, append(users, user))
}
