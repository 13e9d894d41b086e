package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sentinel-server/internal/messaging"
	"sentinel-server/internal/models"
	"sentinel-server/internal/quest"
	"sentinel-server/internal/repository"
	"sentinel-server/internal/service"
)

// testQuest: intro -(stay|reply)-> outcome -> lesson -> end
func testQuest() models.Quest {
	return models.Quest{
		ID:           "momo-test",
		Title:        "Test Quest",
		Track:        models.TrackSurvivor,
		Country:      "GH",
		Description:  "desc",
		IntroSceneID: "intro",
		XP:           50,
		Badge:        "test-badge",
		Scenes: map[string]models.Scene{
			"intro": {
				ID:   "intro",
				Text: "A stranger texts you.",
				Choices: []models.Choice{
					{Text: "Ignore it", Next: "outcome", Type: models.ChoiceConstructive},
					{Text: "Reply", Next: "outcome", Type: models.ChoiceRisky},
				},
			},
			"outcome": {ID: "outcome", Text: "outcome", Feedback: "good call", Next: "lesson"},
			"lesson":  {ID: "lesson", Text: "lesson", IsLesson: true, Next: "end"},
			"end":     {ID: "end", Text: "done", IsEnd: true},
		},
	}
}

func newQuestService(t *testing.T) (service.QuestService, *repository.MemoryProgressRepository) {
	t.Helper()
	raw, err := json.Marshal([]models.Quest{testQuest()})
	require.NoError(t, err)

	catalog, err := quest.LoadCatalog(raw, zap.NewNop())
	require.NoError(t, err)

	repo := repository.NewMemoryProgressRepository()
	progress := service.NewProgressService(repo, zap.NewNop())
	svc := service.NewQuestService(catalog, quest.NewSessionStore(), progress, messaging.NopPublisher{}, zap.NewNop())
	return svc, repo
}

func playToEnd(t *testing.T, svc service.QuestService, userID, sessionID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	for _, next := range []string{"outcome", "lesson", "end"} {
		_, _, err := svc.Choose(ctx, userID, sessionID, next)
		require.NoError(t, err)
	}
}

func TestQuestService_Catalog(t *testing.T) {
	ctx := context.Background()
	svc, _ := newQuestService(t)

	t.Run("lists quests", func(t *testing.T) {
		quests := svc.ListQuests(ctx, "")
		require.Len(t, quests, 1)
		assert.Equal(t, "momo-test", quests[0].ID)
	})

	t.Run("filters by track", func(t *testing.T) {
		assert.Len(t, svc.ListQuests(ctx, models.TrackSurvivor), 1)
		assert.Empty(t, svc.ListQuests(ctx, models.TrackAlly))
	})

	t.Run("unknown quest id", func(t *testing.T) {
		_, err := svc.GetQuest(ctx, "nope")
		assert.ErrorIs(t, err, models.ErrQuestNotFound)
	})
}

func TestQuestService_SessionFlow(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("start, choose and complete awards rewards", func(t *testing.T) {
		svc, _ := newQuestService(t)

		session, intro, err := svc.StartSession(ctx, userID, "momo-test")
		require.NoError(t, err)
		assert.Equal(t, "intro", intro.ID)

		scene, completed, err := svc.Choose(ctx, userID, session.ID, "outcome")
		require.NoError(t, err)
		assert.Equal(t, "outcome", scene.ID)
		assert.False(t, completed)

		_, completed, err = svc.Choose(ctx, userID, session.ID, "lesson")
		require.NoError(t, err)
		assert.False(t, completed)

		scene, completed, err = svc.Choose(ctx, userID, session.ID, "end")
		require.NoError(t, err)
		assert.True(t, scene.IsEnd)
		assert.True(t, completed)

		progress, newBadge, err := svc.Complete(ctx, userID, session.ID)
		require.NoError(t, err)
		assert.True(t, newBadge)
		assert.Equal(t, 50, progress.XP)
		assert.Equal(t, []string{"test-badge"}, progress.Badges)
		assert.Equal(t, []string{"momo-test"}, progress.CompletedQuests)

		// The session is gone after completion.
		_, err = svc.Scene(ctx, userID, session.ID)
		assert.ErrorIs(t, err, models.ErrSessionNotFound)
	})

	t.Run("invalid transition keeps the session in place", func(t *testing.T) {
		svc, _ := newQuestService(t)

		session, _, err := svc.StartSession(ctx, userID, "momo-test")
		require.NoError(t, err)

		_, _, err = svc.Choose(ctx, userID, session.ID, "end")
		assert.ErrorIs(t, err, models.ErrInvalidTransition)

		scene, err := svc.Scene(ctx, userID, session.ID)
		require.NoError(t, err)
		assert.Equal(t, "intro", scene.ID)
	})

	t.Run("complete before the end is rejected", func(t *testing.T) {
		svc, _ := newQuestService(t)

		session, _, err := svc.StartSession(ctx, userID, "momo-test")
		require.NoError(t, err)

		_, _, err = svc.Complete(ctx, userID, session.ID)
		assert.ErrorIs(t, err, service.ErrSessionActive)
	})

	t.Run("replayed quest does not re-award", func(t *testing.T) {
		svc, repo := newQuestService(t)

		first, _, err := svc.StartSession(ctx, userID, "momo-test")
		require.NoError(t, err)
		playToEnd(t, svc, userID, first.ID)
		_, _, err = svc.Complete(ctx, userID, first.ID)
		require.NoError(t, err)
		writesAfterFirst := repo.Writes

		second, _, err := svc.StartSession(ctx, userID, "momo-test")
		require.NoError(t, err)
		playToEnd(t, svc, userID, second.ID)

		progress, newBadge, err := svc.Complete(ctx, userID, second.ID)
		require.NoError(t, err)
		assert.False(t, newBadge)
		assert.Equal(t, 50, progress.XP)
		assert.Equal(t, writesAfterFirst, repo.Writes, "replayed completion must not write")
	})

	t.Run("foreign session reads as not found", func(t *testing.T) {
		svc, _ := newQuestService(t)

		session, _, err := svc.StartSession(ctx, userID, "momo-test")
		require.NoError(t, err)

		stranger := uuid.New()
		_, err = svc.Scene(ctx, stranger, session.ID)
		assert.ErrorIs(t, err, models.ErrSessionNotFound)

		_, _, err = svc.Choose(ctx, stranger, session.ID, "outcome")
		assert.ErrorIs(t, err, models.ErrSessionNotFound)

		_, _, err = svc.Complete(ctx, stranger, session.ID)
		assert.ErrorIs(t, err, models.ErrSessionNotFound)

		// The owner is unaffected.
		_, err = svc.Scene(ctx, userID, session.ID)
		assert.NoError(t, err)
	})

	t.Run("abandon drops the session", func(t *testing.T) {
		svc, repo := newQuestService(t)

		session, _, err := svc.StartSession(ctx, userID, "momo-test")
		require.NoError(t, err)

		svc.AbandonSession(ctx, userID, session.ID)
		_, err = svc.Scene(ctx, userID, session.ID)
		assert.ErrorIs(t, err, models.ErrSessionNotFound)
		assert.Zero(t, repo.Writes, "abandon must not touch the ledger")

		// Abandoning again is a no-op.
		svc.AbandonSession(ctx, userID, session.ID)
	})
}
