package repository

import (
	"context"

	"github.com/google/uuid"

	"sentinel-server/internal/models"
)

// VideoRepository stores generated safety-video scripts.
type VideoRepository interface {
	Create(ctx context.Context, video *models.SafetyVideo) error

	// GetByID returns a single video or models.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.SafetyVideo, error)

	// List returns videos newest-first.
	List(ctx context.Context, limit int) ([]models.SafetyVideo, error)
}
