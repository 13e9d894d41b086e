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

// videoScenarioPrompt produces a short educational scenario script.
const videoScenarioPrompt = `Create a short video script (30-60 seconds) demonstrating a scam scenario and safe response.
Include dialogue, actions, and educational overlay text. Focus on prevention and empowerment.
Start the script with a single title line prefixed "Title:".`

const defaultVideoDurationSeconds = 45

// VideoService generates and serves educational scenario scripts.
type VideoService interface {
	// Generate creates a new script about the topic and stores it.
	Generate(ctx context.Context, topic string) (*models.SafetyVideo, error)

	// Get returns one stored video or models.ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.SafetyVideo, error)

	// List returns recent videos, newest-first.
	List(ctx context.Context) ([]models.SafetyVideo, error)
}

type videoService struct {
	ai     AIClient
	repo   repository.VideoRepository
	logger *zap.Logger
}

// NewVideoService creates a VideoService.
func NewVideoService(ai AIClient, repo repository.VideoRepository, logger *zap.Logger) VideoService {
	return &videoService{
		ai:     ai,
		repo:   repo,
		logger: logger.Named("VideoService"),
	}
}

func (s *videoService) Generate(ctx context.Context, topic string) (*models.SafetyVideo, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, models.ErrInvalidInput
	}

	script, _, err := s.ai.GenerateText(ctx, videoScenarioPrompt, "Scenario topic: "+topic)
	if err != nil {
		return nil, err
	}

	title, body := splitTitle(script, topic)
	video := &models.SafetyVideo{
		ID:              uuid.New(),
		Title:           title,
		Script:          body,
		DurationSeconds: defaultVideoDurationSeconds,
		GeneratedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, video); err != nil {
		return nil, err
	}

	s.logger.Info("Safety video generated", zap.Stringer("videoID", video.ID), zap.String("title", title))
	return video, nil
}

func (s *videoService) Get(ctx context.Context, id uuid.UUID) (*models.SafetyVideo, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *videoService) List(ctx context.Context) ([]models.SafetyVideo, error) {
	videos, err := s.repo.List(ctx, 20)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []models.SafetyVideo{}
	}
	return videos, nil
}

// splitTitle peels the "Title:" line off the script when present, otherwise
// derives the title from the topic.
func splitTitle(script, topic string) (string, string) {
	lines := strings.SplitN(strings.TrimSpace(script), "\n", 2)
	first := strings.TrimSpace(lines[0])
	if strings.HasPrefix(strings.ToLower(first), "title:") {
		title := strings.TrimSpace(first[len("title:"):])
		body := ""
		if len(lines) > 1 {
			body = strings.TrimSpace(lines[1])
		}
		if title != "" {
			return title, body
		}
	}
	return "Scenario: " + topic, strings.TrimSpace(script)
}
