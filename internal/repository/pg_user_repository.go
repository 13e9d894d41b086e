package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
)

var _ UserRepository = (*pgUserRepository)(nil)

type pgUserRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgUserRepository creates a new Postgres-backed UserRepository.
func NewPgUserRepository(pool *pgxpool.Pool, logger *zap.Logger) UserRepository {
	return &pgUserRepository{
		pool:   pool,
		logger: logger.Named("PgUserRepo"),
	}
}

const createUserQuery = `
INSERT INTO users (id, username, password_hash, country, age_range, interests, safety_score, created_at, last_active_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const getUserByUsernameQuery = `
SELECT id, username, password_hash, country, age_range, interests, safety_score, created_at, last_active_at
FROM users
WHERE username = $1`

const getUserByIDQuery = `
SELECT id, username, password_hash, country, age_range, interests, safety_score, created_at, last_active_at
FROM users
WHERE id = $1`

const touchLastActiveQuery = `
UPDATE users SET last_active_at = now() WHERE id = $1`

// uniqueViolationCode is the Postgres error code for duplicate keys.
const uniqueViolationCode = "23505"

func (r *pgUserRepository) Create(ctx context.Context, user *models.User) error {
	logFields := []zap.Field{
		zap.Stringer("userID", user.ID),
		zap.String("username", user.Username),
	}

	_, err := r.pool.Exec(ctx, createUserQuery,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Country,
		user.AgeRange,
		user.Interests,
		user.SafetyScore,
		user.CreatedAt,
		user.LastActiveAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			r.logger.Warn("Username already taken", logFields...)
			return models.ErrUserAlreadyExists
		}
		r.logger.Error("Failed to create user", append(logFields, zap.Error(err))...)
		return err
	}

	r.logger.Info("User created", logFields...)
	return nil
}

func (r *pgUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := r.scanUser(r.pool.QueryRow(ctx, getUserByUsernameQuery, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by username", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := r.scanUser(r.pool.QueryRow(ctx, getUserByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by id", zap.Stringer("userID", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) TouchLastActive(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, touchLastActiveQuery, id)
	if err != nil {
		r.logger.Error("Failed to touch last active", zap.Stringer("userID", id), zap.Error(err))
		return err
	}
	return nil
}

func (r *pgUserRepository) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Country,
		&user.AgeRange,
		&user.Interests,
		&user.SafetyScore,
		&user.CreatedAt,
		&user.LastActiveAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
