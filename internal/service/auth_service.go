package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sentinel-server/internal/authutils"
	"sentinel-server/internal/models"
	"sentinel-server/internal/repository"
)

// AuthService handles registration, login and profile lookup.
type AuthService interface {
	// Register creates an account and returns the user plus a signed access
	// token. Returns models.ErrUserAlreadyExists on a taken username.
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)

	// Login verifies credentials and returns the user plus a signed access
	// token. Bad username and bad password are indistinguishable to the
	// caller: both map to models.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*models.User, string, error)

	// Me returns the profile for an authenticated user id.
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// RegisterInput is the profile data collected at sign-up.
type RegisterInput struct {
	Username  string
	Password  string
	Country   string
	AgeRange  string
	Interests []string
}

type authService struct {
	users     repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users repository.UserRepository, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger.Named("AuthService"),
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || len(input.Password) < 8 {
		return nil, "", models.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, "", err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Country:      input.Country,
		AgeRange:     input.AgeRange,
		Interests:    input.Interests,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	if user.Interests == nil {
		user.Interests = []string{}
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := authutils.IssueToken(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Stringer("userID", user.ID), zap.Error(err))
		return nil, "", err
	}

	s.logger.Info("User registered", zap.Stringer("userID", user.ID), zap.String("username", username))
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Failed login attempt", zap.String("username", username))
		return nil, "", models.ErrInvalidCredentials
	}

	if err := s.users.TouchLastActive(ctx, user.ID); err != nil {
		// Not fatal for login.
		s.logger.Warn("Failed to update last active", zap.Stringer("userID", user.ID), zap.Error(err))
	}

	token, err := authutils.IssueToken(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Stringer("userID", user.ID), zap.Error(err))
		return nil, "", err
	}

	s.logger.Info("User logged in", zap.Stringer("userID", user.ID))
	return user, token, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}
