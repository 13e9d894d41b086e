package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sentinel-server/internal/messaging"
	"sentinel-server/internal/models"
	"sentinel-server/internal/quest"
)

// QuestService exposes the quest catalog and drives interactive sessions.
// Sessions live in memory; only the completion commit touches the persisted
// ledger, via ProgressService.
type QuestService interface {
	// ListQuests returns the loaded catalog, optionally filtered by track.
	ListQuests(ctx context.Context, track models.QuestTrack) []models.Quest

	// GetQuest returns one quest or models.ErrQuestNotFound.
	GetQuest(ctx context.Context, questID string) (*models.Quest, error)

	// StartSession opens a fresh play-through of the quest for the user and
	// returns the session together with its intro scene. Starting a quest
	// the user already completed is allowed; the replayed completion will
	// simply not re-award.
	StartSession(ctx context.Context, userID uuid.UUID, questID string) (*quest.Session, *models.Scene, error)

	// Scene returns the scene an active session sits at.
	Scene(ctx context.Context, userID, sessionID uuid.UUID) (*models.Scene, error)

	// Choose advances the session to the requested scene and returns it. If
	// the scene is terminal the session becomes completed in the same call.
	Choose(ctx context.Context, userID, sessionID uuid.UUID, next string) (*models.Scene, bool, error)

	// Complete commits the rewards of a completed session to the ledger and
	// drops the session. Returns ErrSessionActive while the session has not
	// reached a terminal scene.
	Complete(ctx context.Context, userID, sessionID uuid.UUID) (*models.Progress, bool, error)

	// AbandonSession drops an active session without committing anything.
	// Unknown ids are ignored.
	AbandonSession(ctx context.Context, userID, sessionID uuid.UUID)
}

type questService struct {
	catalog   *quest.Catalog
	sessions  *quest.SessionStore
	progress  ProgressService
	publisher messaging.AnalyticsPublisher
	logger    *zap.Logger
}

// NewQuestService creates a QuestService over a loaded catalog.
func NewQuestService(
	catalog *quest.Catalog,
	sessions *quest.SessionStore,
	progress ProgressService,
	publisher messaging.AnalyticsPublisher,
	logger *zap.Logger,
) QuestService {
	return &questService{
		catalog:   catalog,
		sessions:  sessions,
		progress:  progress,
		publisher: publisher,
		logger:    logger.Named("QuestService"),
	}
}

func (s *questService) ListQuests(_ context.Context, track models.QuestTrack) []models.Quest {
	all := s.catalog.Quests()
	if track == "" {
		return all
	}
	filtered := make([]models.Quest, 0, len(all))
	for _, q := range all {
		if q.Track == track {
			filtered = append(filtered, q)
		}
	}
	return filtered
}

func (s *questService) GetQuest(_ context.Context, questID string) (*models.Quest, error) {
	return s.catalog.QuestByID(questID)
}

func (s *questService) StartSession(_ context.Context, userID uuid.UUID, questID string) (*quest.Session, *models.Scene, error) {
	q, err := s.catalog.QuestByID(questID)
	if err != nil {
		return nil, nil, err
	}

	session, err := quest.NewSession(q, userID)
	if err != nil {
		return nil, nil, err
	}
	s.sessions.Put(session)

	intro, err := session.CurrentScene()
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Quest session started",
		zap.Stringer("sessionID", session.ID),
		zap.Stringer("userID", userID),
		zap.String("questID", questID))
	return session, intro, nil
}

func (s *questService) Scene(_ context.Context, userID, sessionID uuid.UUID) (*models.Scene, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return session.CurrentScene()
}

func (s *questService) Choose(ctx context.Context, userID, sessionID uuid.UUID, next string) (*models.Scene, bool, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, false, err
	}

	fromSceneID := session.CurrentSceneID()
	scene, choice, err := session.Choose(next)
	if err != nil {
		return nil, false, err
	}

	event := models.ChoiceEvent{
		UserID:     userID,
		QuestID:    session.Quest.ID,
		SceneID:    fromSceneID,
		NextID:     next,
		OccurredAt: time.Now(),
	}
	if choice != nil {
		event.ChoiceText = choice.Text
		event.ChoiceType = choice.Type
	}
	if err := s.publisher.PublishChoiceEvent(ctx, event); err != nil {
		// Analytics never block gameplay.
		s.logger.Warn("Failed to publish choice event", zap.Error(err))
	}

	return scene, session.Completed(), nil
}

func (s *questService) Complete(ctx context.Context, userID, sessionID uuid.UUID) (*models.Progress, bool, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, false, err
	}
	if !session.Completed() {
		return nil, false, ErrSessionActive
	}

	progress, newBadge, err := s.progress.CommitCompletion(ctx, userID, session.Quest)
	if err != nil {
		return nil, false, err
	}
	s.sessions.Delete(sessionID)

	event := models.CompletionEvent{
		UserID:     userID,
		QuestID:    session.Quest.ID,
		XP:         session.Quest.XP,
		Badge:      session.Quest.Badge,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.PublishCompletionEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish completion event", zap.Error(err))
	}

	s.logger.Info("Quest session completed",
		zap.Stringer("sessionID", sessionID),
		zap.Stringer("userID", userID),
		zap.String("questID", session.Quest.ID))
	return progress, newBadge, nil
}

func (s *questService) AbandonSession(_ context.Context, userID, sessionID uuid.UUID) {
	if _, err := s.ownedSession(userID, sessionID); err != nil {
		return
	}
	s.sessions.Delete(sessionID)
}

// ownedSession resolves the session and checks the caller owns it. A foreign
// session is reported as not found rather than forbidden, so session ids do
// not leak across users.
func (s *questService) ownedSession(userID, sessionID uuid.UUID) (*quest.Session, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, models.ErrSessionNotFound
	}
	return session, nil
}
