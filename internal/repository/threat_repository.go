package repository

import (
	"context"

	"github.com/google/uuid"

	"sentinel-server/internal/models"
)

// ThreatRepository provides access to the published threat alert feed.
type ThreatRepository interface {
	// List returns alerts newest-first with the user's read flags resolved,
	// optionally filtered by location. An empty location returns the global
	// feed.
	List(ctx context.Context, userID uuid.UUID, location string, limit int) ([]models.Threat, error)

	// GetByID returns a single alert or models.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Threat, error)

	// MarkRead records that the user has seen the alert. Repeated marks are
	// harmless.
	MarkRead(ctx context.Context, threatID, userID uuid.UUID) error
}
