package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
	"sentinel-server/internal/repository"
)

// ProgressService owns the per-user reward ledger: XP, badges, completed
// quests and generated lesson cards. Every mutation is idempotent, so a
// client that retries a commit after a lost response cannot double-award
// anything.
type ProgressService interface {
	// Get returns the user's ledger; a user with no record gets the
	// zero-valued default.
	Get(ctx context.Context, userID uuid.UUID) (*models.Progress, error)

	// CommitCompletion awards the quest's XP and badge exactly once. The
	// first commit for a quest adds XP, appends the badge (if any and not
	// already held) and records the quest id. Replays return the current
	// ledger unchanged. newBadge reports whether this call added the badge.
	CommitCompletion(ctx context.Context, userID uuid.UUID, quest *models.Quest) (progress *models.Progress, newBadge bool, err error)

	// MarkCardGenerated records that a lesson card was rendered for the
	// badge. Repeated marks for the same badge are no-ops.
	MarkCardGenerated(ctx context.Context, userID uuid.UUID, badge string) (*models.Progress, error)
}

type progressService struct {
	repo   repository.ProgressRepository
	logger *zap.Logger
}

// NewProgressService creates a ProgressService over the given repository.
func NewProgressService(repo repository.ProgressRepository, logger *zap.Logger) ProgressService {
	return &progressService{
		repo:   repo,
		logger: logger.Named("ProgressService"),
	}
}

func (s *progressService) Get(ctx context.Context, userID uuid.UUID) (*models.Progress, error) {
	return s.repo.Get(ctx, userID)
}

func (s *progressService) CommitCompletion(ctx context.Context, userID uuid.UUID, quest *models.Quest) (*models.Progress, bool, error) {
	logFields := []zap.Field{
		zap.Stringer("userID", userID),
		zap.String("questID", quest.ID),
	}

	progress, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	if progress.HasCompleted(quest.ID) {
		// Replayed commit: the ledger already reflects this quest.
		s.logger.Debug("Quest already committed, returning ledger unchanged", logFields...)
		return progress, false, nil
	}

	progress.XP += quest.XP
	progress.CompletedQuests = append(progress.CompletedQuests, quest.ID)

	// The display list keeps every earned badge, including repeats across
	// quests; newBadge only reports first-time unlocks.
	newBadge := false
	if quest.Badge != "" {
		newBadge = !progress.HasBadge(quest.Badge)
		progress.Badges = append(progress.Badges, quest.Badge)
	}

	if err := s.repo.Replace(ctx, progress); err != nil {
		return nil, false, err
	}

	s.logger.Info("Quest completion committed",
		append(logFields,
			zap.Int("xp", progress.XP),
			zap.Int("level", progress.Level()),
			zap.Bool("newBadge", newBadge))...)
	return progress, newBadge, nil
}

func (s *progressService) MarkCardGenerated(ctx context.Context, userID uuid.UUID, badge string) (*models.Progress, error) {
	progress, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if progress.HasGeneratedCard(badge) {
		return progress, nil
	}

	progress.GeneratedCards = append(progress.GeneratedCards, badge)
	if err := s.repo.Replace(ctx, progress); err != nil {
		return nil, err
	}

	s.logger.Debug("Lesson card marked generated",
		zap.Stringer("userID", userID),
		zap.String("badge", badge))
	return progress, nil
}
