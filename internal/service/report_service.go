package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
	"sentinel-server/internal/repository"
)

// ReportService accepts and lists user abuse reports.
type ReportService interface {
	// Submit files a report. Category must be one of models.ReportCategories
	// and the description must be non-empty.
	Submit(ctx context.Context, userID uuid.UUID, category, description string, anonymous bool) (*models.Report, error)

	// ListByUser returns the user's own reports, newest-first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Report, error)
}

type reportService struct {
	repo   repository.ReportRepository
	logger *zap.Logger
}

// NewReportService creates a ReportService.
func NewReportService(repo repository.ReportRepository, logger *zap.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger.Named("ReportService"),
	}
}

func (s *reportService) Submit(ctx context.Context, userID uuid.UUID, category, description string, anonymous bool) (*models.Report, error) {
	description = strings.TrimSpace(description)
	if description == "" || !models.ValidReportCategory(category) {
		return nil, models.ErrInvalidInput
	}

	report := &models.Report{
		ID:          uuid.New(),
		UserID:      userID,
		Category:    category,
		Description: description,
		Status:      models.ReportPending,
		Anonymous:   anonymous,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("Report submitted",
		zap.Stringer("reportID", report.ID),
		zap.String("category", category),
		zap.Bool("anonymous", anonymous))
	return report, nil
}

func (s *reportService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Report, error) {
	reports, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}
