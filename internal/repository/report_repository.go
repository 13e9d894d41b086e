package repository

import (
	"context"

	"github.com/google/uuid"

	"sentinel-server/internal/models"
)

// ReportRepository persists incident reports filed by users.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error

	// ListByUser returns the user's own reports, newest-first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Report, error)
}
