package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
	"sentinel-server/internal/repository"
)

// safetyTipPrompt asks for one personalized tip. Mirrors the mobile client's
// daily tip flow.
const safetyTipPrompt = `Generate a personalized daily safety tip for a young African woman based on her age range and interests.
Make it culturally relevant and actionable. Keep under 100 words.`

const tipCacheTTL = 24 * time.Hour

// fallbackTips rotate when the AI backend is unavailable.
var fallbackTips = []models.SafetyTip{
	{Tip: "Always verify the identity of people you meet online before sharing personal information.", Category: "general"},
	{Tip: "Never approve a mobile money 'reversal' you did not initiate. Call your provider's official line first.", Category: "momo"},
	{Tip: "Real employers never ask for registration fees. A job that charges you to apply is a scam.", Category: "jobs"},
	{Tip: "Turn off location sharing in photos before posting. Metadata can reveal where you live.", Category: "privacy"},
	{Tip: "Screenshot threats and harassment before blocking. Evidence helps when you report.", Category: "harassment"},
}

// TipService serves the daily personalized safety tip. One tip per user per
// day: the first request generates and caches it, later requests return the
// cached value.
type TipService interface {
	DailyTip(ctx context.Context, userID uuid.UUID) (*models.SafetyTip, error)
}

type tipService struct {
	ai     AIClient
	users  repository.UserRepository
	redis  *redis.Client
	logger *zap.Logger
}

// NewTipService creates a TipService.
func NewTipService(ai AIClient, users repository.UserRepository, redisClient *redis.Client, logger *zap.Logger) TipService {
	return &tipService{
		ai:     ai,
		users:  users,
		redis:  redisClient,
		logger: logger.Named("TipService"),
	}
}

func (s *tipService) DailyTip(ctx context.Context, userID uuid.UUID) (*models.SafetyTip, error) {
	cacheKey := fmt.Sprintf("tip:%s:%s", userID, time.Now().Format("2006-01-02"))

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var tip models.SafetyTip
			if err := json.Unmarshal([]byte(cached), &tip); err == nil {
				return &tip, nil
			}
			// Unreadable cache entry: fall through and regenerate.
		} else if err != redis.Nil {
			s.logger.Warn("Tip cache read failed", zap.Error(err))
		}
	}

	tip := s.generateTip(ctx, userID)

	if s.redis != nil {
		payload, err := json.Marshal(tip)
		if err == nil {
			if err := s.redis.Set(ctx, cacheKey, payload, tipCacheTTL).Err(); err != nil {
				s.logger.Warn("Tip cache write failed", zap.Error(err))
			}
		}
	}

	return tip, nil
}

func (s *tipService) generateTip(ctx context.Context, userID uuid.UUID) *models.SafetyTip {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load user profile for tip", zap.Stringer("userID", userID), zap.Error(err))
		return s.fallbackTip(userID)
	}

	profile := fmt.Sprintf("User profile: Age %s, interests: %s", user.AgeRange, strings.Join(user.Interests, ", "))
	response, _, err := s.ai.GenerateText(ctx, safetyTipPrompt, profile)
	if err != nil {
		s.logger.Warn("Tip generation failed, using fallback", zap.Error(err))
		return s.fallbackTip(userID)
	}

	return &models.SafetyTip{
		Tip:      strings.TrimSpace(response),
		Category: "personalized",
	}
}

// fallbackTip deterministically picks from the curated list so the same user
// keeps the same tip for the day even without a cache.
func (s *tipService) fallbackTip(userID uuid.UUID) *models.SafetyTip {
	day := time.Now().YearDay()
	idx := (day + int(userID[0])) % len(fallbackTips)
	tip := fallbackTips[idx]
	return &tip
}
