package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
)

var _ VideoRepository = (*pgVideoRepository)(nil)

type pgVideoRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgVideoRepository creates a new Postgres-backed VideoRepository.
func NewPgVideoRepository(pool *pgxpool.Pool, logger *zap.Logger) VideoRepository {
	return &pgVideoRepository{
		pool:   pool,
		logger: logger.Named("PgVideoRepo"),
	}
}

const createVideoQuery = `
INSERT INTO safety_videos (id, title, script, duration_seconds, generated_at)
VALUES ($1, $2, $3, $4, $5)`

const getVideoQuery = `
SELECT id, title, script, duration_seconds, generated_at
FROM safety_videos
WHERE id = $1`

const listVideosQuery = `
SELECT id, title, script, duration_seconds, generated_at
FROM safety_videos
ORDER BY generated_at DESC
LIMIT $1`

func (r *pgVideoRepository) Create(ctx context.Context, video *models.SafetyVideo) error {
	_, err := r.pool.Exec(ctx, createVideoQuery,
		video.ID,
		video.Title,
		video.Script,
		video.DurationSeconds,
		video.GeneratedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create video", zap.Stringer("videoID", video.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *pgVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SafetyVideo, error) {
	var video models.SafetyVideo
	err := r.pool.QueryRow(ctx, getVideoQuery, id).Scan(
		&video.ID,
		&video.Title,
		&video.Script,
		&video.DurationSeconds,
		&video.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get video", zap.Stringer("videoID", id), zap.Error(err))
		return nil, err
	}
	return &video, nil
}

func (r *pgVideoRepository) List(ctx context.Context, limit int) ([]models.SafetyVideo, error) {
	rows, err := r.pool.Query(ctx, listVideosQuery, limit)
	if err != nil {
		r.logger.Error("Failed to list videos", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var videos []models.SafetyVideo
	for rows.Next() {
		var video models.SafetyVideo
		if err := rows.Scan(
			&video.ID,
			&video.Title,
			&video.Script,
			&video.DurationSeconds,
			&video.GeneratedAt,
		); err != nil {
			r.logger.Error("Failed to scan video row", zap.Error(err))
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}
