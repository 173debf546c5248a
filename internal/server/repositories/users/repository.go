// Package users stores backend accounts.
package users

import (
	"context"
	"errors"

	"github.com/Divert12/divert-ai-crew/internal/server/models"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

// Repository is the users table. Create fills in ID, IsActive and the
// timestamps and reports uniqueness violations with ErrDuplicateUsername or
// ErrDuplicateEmail.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
