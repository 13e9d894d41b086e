package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
	"sentinel-server/internal/repository"
)

const defaultThreatFeedLimit = 50

// ThreatService serves the dashboard threat feed.
type ThreatService interface {
	// Feed returns recent alerts for the user, filtered to their country's
	// feed plus global alerts.
	Feed(ctx context.Context, userID uuid.UUID, location string) ([]models.Threat, error)

	// MarkRead marks one alert as seen by the user.
	MarkRead(ctx context.Context, userID, threatID uuid.UUID) error
}

type threatService struct {
	repo   repository.ThreatRepository
	logger *zap.Logger
}

// NewThreatService creates a ThreatService.
func NewThreatService(repo repository.ThreatRepository, logger *zap.Logger) ThreatService {
	return &threatService{
		repo:   repo,
		logger: logger.Named("ThreatService"),
	}
}

func (s *threatService) Feed(ctx context.Context, userID uuid.UUID, location string) ([]models.Threat, error) {
	threats, err := s.repo.List(ctx, userID, location, defaultThreatFeedLimit)
	if err != nil {
		return nil, err
	}
	if threats == nil {
		threats = []models.Threat{}
	}
	return threats, nil
}

func (s *threatService) MarkRead(ctx context.Context, userID, threatID uuid.UUID) error {
	// Verify the alert exists so the client gets a 404 instead of silently
	// recording reads of nothing.
	if _, err := s.repo.GetByID(ctx, threatID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, threatID, userID)
}
