package repository

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
)

var _ ReportRepository = (*pgReportRepository)(nil)

type pgReportRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgReportRepository creates a new Postgres-backed ReportRepository.
func NewPgReportRepository(pool *pgxpool.Pool, logger *zap.Logger) ReportRepository {
	return &pgReportRepository{
		pool:   pool,
		logger: logger.Named("PgReportRepo"),
	}
}

const createReportQuery = `
INSERT INTO reports (id, user_id, category, description, anonymous, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const listReportsByUserQuery = `
SELECT id, user_id, category, description, anonymous, status, created_at
FROM reports
WHERE user_id = $1
ORDER BY created_at DESC`

func (r *pgReportRepository) Create(ctx context.Context, report *models.Report) error {
	logFields := []zap.Field{
		zap.Stringer("reportID", report.ID),
		zap.String("category", report.Category),
	}

	_, err := r.pool.Exec(ctx, createReportQuery,
		report.ID,
		report.UserID,
		report.Category,
		report.Description,
		report.Anonymous,
		report.Status,
		report.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create report", append(logFields, zap.Error(err))...)
		return err
	}

	r.logger.Info("Report created", logFields...)
	return nil
}

func (r *pgReportRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Report, error) {
	var reports []models.Report
	err := pgxscan.Select(ctx, r.pool, &reports, listReportsByUserQuery, userID)
	if err != nil {
		r.logger.Error("Failed to list reports", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	return reports, nil
}
