package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
	"sentinel-server/internal/repository"
	"sentinel-server/internal/service"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, 1, models.Level(0))
	assert.Equal(t, 1, models.Level(99))
	assert.Equal(t, 2, models.Level(100))
	assert.Equal(t, 3, models.Level(250))
}

func TestProgressService_Get(t *testing.T) {
	ctx := context.Background()
	svc := service.NewProgressService(repository.NewMemoryProgressRepository(), zap.NewNop())

	t.Run("unknown user gets zero-valued ledger", func(t *testing.T) {
		progress, err := svc.Get(ctx, uuid.New())
		require.NoError(t, err)
		assert.Zero(t, progress.XP)
		assert.Empty(t, progress.Badges)
		assert.Empty(t, progress.CompletedQuests)
		assert.Empty(t, progress.GeneratedCards)
		assert.Equal(t, 1, progress.Level())
	})
}

func TestProgressService_CommitCompletion(t *testing.T) {
	ctx := context.Background()
	quest := &models.Quest{ID: "q1", XP: 50, Badge: "badge1"}

	t.Run("first commit awards xp, badge and quest", func(t *testing.T) {
		repo := repository.NewMemoryProgressRepository()
		svc := service.NewProgressService(repo, zap.NewNop())
		userID := uuid.New()

		progress, newBadge, err := svc.CommitCompletion(ctx, userID, quest)
		require.NoError(t, err)
		assert.True(t, newBadge)
		assert.Equal(t, 50, progress.XP)
		assert.Equal(t, []string{"badge1"}, progress.Badges)
		assert.Equal(t, []string{"q1"}, progress.CompletedQuests)
		assert.Empty(t, progress.GeneratedCards)
	})

	t.Run("replayed commit changes nothing", func(t *testing.T) {
		repo := repository.NewMemoryProgressRepository()
		svc := service.NewProgressService(repo, zap.NewNop())
		userID := uuid.New()

		_, _, err := svc.CommitCompletion(ctx, userID, quest)
		require.NoError(t, err)
		writesAfterFirst := repo.Writes

		progress, newBadge, err := svc.CommitCompletion(ctx, userID, quest)
		require.NoError(t, err)
		assert.False(t, newBadge)
		assert.Equal(t, 50, progress.XP)
		assert.Equal(t, []string{"badge1"}, progress.Badges)
		assert.Equal(t, []string{"q1"}, progress.CompletedQuests)
		assert.Equal(t, writesAfterFirst, repo.Writes, "replay must not write")
	})

	t.Run("badge earned from a second quest repeats in the display list", func(t *testing.T) {
		repo := repository.NewMemoryProgressRepository()
		svc := service.NewProgressService(repo, zap.NewNop())
		userID := uuid.New()

		_, newBadge, err := svc.CommitCompletion(ctx, userID, quest)
		require.NoError(t, err)
		assert.True(t, newBadge)

		sameBadgeQuest := &models.Quest{ID: "q2", XP: 30, Badge: "badge1"}
		progress, newBadge, err := svc.CommitCompletion(ctx, userID, sameBadgeQuest)
		require.NoError(t, err)
		assert.False(t, newBadge, "only the first unlock counts as new")
		assert.Equal(t, 80, progress.XP)
		assert.Equal(t, []string{"badge1", "badge1"}, progress.Badges)
		assert.Equal(t, []string{"q1", "q2"}, progress.CompletedQuests)
	})

	t.Run("quest without badge awards xp only", func(t *testing.T) {
		repo := repository.NewMemoryProgressRepository()
		svc := service.NewProgressService(repo, zap.NewNop())

		progress, newBadge, err := svc.CommitCompletion(ctx, uuid.New(), &models.Quest{ID: "plain", XP: 20})
		require.NoError(t, err)
		assert.False(t, newBadge)
		assert.Equal(t, 20, progress.XP)
		assert.Empty(t, progress.Badges)
	})
}

func TestProgressService_MarkCardGenerated(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryProgressRepository()
	svc := service.NewProgressService(repo, zap.NewNop())
	userID := uuid.New()

	progress, err := svc.MarkCardGenerated(ctx, userID, "badge1")
	require.NoError(t, err)
	assert.Equal(t, []string{"badge1"}, progress.GeneratedCards)
	writesAfterFirst := repo.Writes

	// Second mark is a no-op.
	progress, err = svc.MarkCardGenerated(ctx, userID, "badge1")
	require.NoError(t, err)
	assert.Equal(t, []string{"badge1"}, progress.GeneratedCards)
	assert.Equal(t, writesAfterFirst, repo.Writes)
}
