package repository

import (
	"context"

	"github.com/google/uuid"

	"sentinel-server/internal/models"
)

// ProgressRepository persists the per-user reward ledger. The record is always
// read and replaced as a whole; there are no partial-field updates, so a
// single-writer scope is assumed (see the service layer for the idempotence
// guard that makes replayed commits harmless).
type ProgressRepository interface {
	// Get returns the stored ledger, or the zero-valued default when the user
	// has no record yet. A missing record is a valid state, never an error.
	Get(ctx context.Context, userID uuid.UUID) (*models.Progress, error)

	// Replace persists the whole ledger record, creating it if absent.
	Replace(ctx context.Context, progress *models.Progress) error
}
