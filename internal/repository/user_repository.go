package repository

import (
	"context"

	"github.com/google/uuid"

	"sentinel-server/internal/models"
)

// UserRepository persists registered accounts.
type UserRepository interface {
	// Create stores a new user. Returns models.ErrUserAlreadyExists when the
	// username is taken.
	Create(ctx context.Context, user *models.User) error

	// GetByUsername returns the user or models.ErrUserNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID returns the user or models.ErrUserNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// TouchLastActive updates the last-active timestamp.
	TouchLastActive(ctx context.Context, id uuid.UUID) error
}
