package repository

import (
	"context"
	"errors"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
)

var _ ThreatRepository = (*pgThreatRepository)(nil)

type pgThreatRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgThreatRepository creates a new Postgres-backed ThreatRepository.
func NewPgThreatRepository(pool *pgxpool.Pool, logger *zap.Logger) ThreatRepository {
	return &pgThreatRepository{
		pool:   pool,
		logger: logger.Named("PgThreatRepo"),
	}
}

const listThreatsQuery = `
SELECT t.id, t.type, t.title, t.description, t.risk, t.location, t.ai_analysis,
       (tr.user_id IS NOT NULL) AS is_read,
       t.created_at
FROM threats t
LEFT JOIN threat_reads tr ON tr.threat_id = t.id AND tr.user_id = $1
WHERE ($2 = '' OR t.location = $2 OR t.location = 'Global')
ORDER BY t.created_at DESC
LIMIT $3`

const getThreatQuery = `
SELECT id, type, title, description, risk, location, ai_analysis,
       false AS is_read, created_at
FROM threats
WHERE id = $1`

const markThreatReadQuery = `
INSERT INTO threat_reads (threat_id, user_id, read_at)
VALUES ($1, $2, now())
ON CONFLICT (threat_id, user_id) DO NOTHING`

func (r *pgThreatRepository) List(ctx context.Context, userID uuid.UUID, location string, limit int) ([]models.Threat, error) {
	var threats []models.Threat
	err := pgxscan.Select(ctx, r.pool, &threats, listThreatsQuery, userID, location, limit)
	if err != nil {
		r.logger.Error("Failed to list threats", zap.String("location", location), zap.Error(err))
		return nil, err
	}
	return threats, nil
}

func (r *pgThreatRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Threat, error) {
	var threat models.Threat
	err := pgxscan.Get(ctx, r.pool, &threat, getThreatQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get threat", zap.Stringer("threatID", id), zap.Error(err))
		return nil, err
	}
	return &threat, nil
}

func (r *pgThreatRepository) MarkRead(ctx context.Context, threatID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, markThreatReadQuery, threatID, userID)
	if err != nil {
		r.logger.Error("Failed to mark threat read",
			zap.Stringer("threatID", threatID),
			zap.Stringer("userID", userID),
			zap.Error(err))
		return err
	}
	return nil
}
