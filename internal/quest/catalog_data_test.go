package quest_test

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sentinel-server/internal/quest"
)

// TestBundledCatalog validates the quest data that ships with the server:
// every authored quest must load, and every play-through must terminate.
func TestBundledCatalog(t *testing.T) {
	raw, err := os.ReadFile("../../data/quests.json")
	require.NoError(t, err, "bundled quest catalog must be readable")

	catalog, err := quest.LoadCatalog(raw, zap.NewNop())
	require.NoError(t, err)
	require.NotZero(t, catalog.Len(), "bundled catalog must contain playable quests")

	for _, q := range catalog.Quests() {
		q := q
		t.Run(q.ID, func(t *testing.T) {
			assert.NotEmpty(t, q.Title)
			assert.NotEmpty(t, q.Badge)
			assert.Positive(t, q.XP)

			// First-choice traversal must reach a terminal scene within the
			// scene count, i.e. without revisiting anything.
			s, err := quest.NewSession(&q, uuid.New())
			require.NoError(t, err)

			for steps := 0; !s.Completed(); steps++ {
				require.Less(t, steps, len(q.Scenes), "traversal must not cycle")

				scene, err := s.CurrentScene()
				require.NoError(t, err)

				next := scene.Next
				if len(scene.Choices) > 0 {
					next = scene.Choices[0].Next
				}
				require.NotEmpty(t, next, "non-terminal scene %q must lead somewhere", scene.ID)

				_, _, err = s.Choose(next)
				require.NoError(t, err)
			}
		})
	}
}
