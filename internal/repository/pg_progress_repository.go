package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ ProgressRepository = (*pgProgressRepository)(nil)

type pgProgressRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgProgressRepository creates a new Postgres-backed ProgressRepository.
func NewPgProgressRepository(pool *pgxpool.Pool, logger *zap.Logger) ProgressRepository {
	return &pgProgressRepository{
		pool:   pool,
		logger: logger.Named("PgProgressRepo"),
	}
}

const getProgressQuery = `
SELECT xp, badges, completed_quests, generated_cards, updated_at
FROM progress
WHERE user_id = $1`

const replaceProgressQuery = `
INSERT INTO progress (user_id, xp, badges, completed_quests, generated_cards, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id) DO UPDATE SET
    xp = EXCLUDED.xp,
    badges = EXCLUDED.badges,
    completed_quests = EXCLUDED.completed_quests,
    generated_cards = EXCLUDED.generated_cards,
    updated_at = EXCLUDED.updated_at`

func (r *pgProgressRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Progress, error) {
	logFields := []zap.Field{zap.Stringer("userID", userID)}

	progress := models.NewProgress(userID)
	var badgesJSON, completedJSON, cardsJSON []byte

	err := r.pool.QueryRow(ctx, getProgressQuery, userID).Scan(
		&progress.XP,
		&badgesJSON,
		&completedJSON,
		&cardsJSON,
		&progress.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Absence is the valid zero-valued ledger, not an error.
			r.logger.Debug("No progress record, returning default", logFields...)
			return progress, nil
		}
		r.logger.Error("Failed to get progress", append(logFields, zap.Error(err))...)
		return nil, err
	}

	if err := json.Unmarshal(badgesJSON, &progress.Badges); err != nil {
		r.logger.Error("Failed to unmarshal badges", append(logFields, zap.Error(err))...)
		return nil, err
	}
	if err := json.Unmarshal(completedJSON, &progress.CompletedQuests); err != nil {
		r.logger.Error("Failed to unmarshal completed quests", append(logFields, zap.Error(err))...)
		return nil, err
	}
	if err := json.Unmarshal(cardsJSON, &progress.GeneratedCards); err != nil {
		r.logger.Error("Failed to unmarshal generated cards", append(logFields, zap.Error(err))...)
		return nil, err
	}

	r.logger.Debug("Retrieved progress", logFields...)
	return progress, nil
}

func (r *pgProgressRepository) Replace(ctx context.Context, progress *models.Progress) error {
	progress.UpdatedAt = time.Now()
	logFields := []zap.Field{
		zap.Stringer("userID", progress.UserID),
		zap.Int("xp", progress.XP),
		zap.Int("completedQuests", len(progress.CompletedQuests)),
	}

	badgesJSON, err := json.Marshal(progress.Badges)
	if err != nil {
		r.logger.Error("Failed to marshal badges", append(logFields, zap.Error(err))...)
		return err
	}
	completedJSON, err := json.Marshal(progress.CompletedQuests)
	if err != nil {
		r.logger.Error("Failed to marshal completed quests", append(logFields, zap.Error(err))...)
		return err
	}
	cardsJSON, err := json.Marshal(progress.GeneratedCards)
	if err != nil {
		r.logger.Error("Failed to marshal generated cards", append(logFields, zap.Error(err))...)
		return err
	}

	_, err = r.pool.Exec(ctx, replaceProgressQuery,
		progress.UserID,
		progress.XP,
		badgesJSON,
		completedJSON,
		cardsJSON,
		progress.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to replace progress", append(logFields, zap.Error(err))...)
		return err
	}

	r.logger.Debug("Replaced progress", logFields...)
	return nil
}
