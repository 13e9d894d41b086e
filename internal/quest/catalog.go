package quest

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"sentinel-server/internal/models"
)

// DefinitionError describes an authoring mistake in a single quest definition.
// The quest it names is excluded from the catalog; the rest of the load proceeds.
type DefinitionError struct {
	QuestID string
	Reason  string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("quest %q: %s", e.QuestID, e.Reason)
}

// Catalog is the read-only set of playable quests. It is built once at startup
// from the authored JSON document and never mutated by gameplay.
type Catalog struct {
	quests []models.Quest
	byID   map[string]*models.Quest
}

// LoadCatalog deserializes and validates the authored quest document.
// A quest failing validation is logged and skipped; it never fails the whole
// load, so one broken definition cannot take the catalog offline.
func LoadCatalog(raw []byte, logger *zap.Logger) (*Catalog, error) {
	var authored []models.Quest
	if err := json.Unmarshal(raw, &authored); err != nil {
		return nil, fmt.Errorf("failed to parse quest catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]*models.Quest, len(authored))}
	seen := make(map[string]struct{}, len(authored))
	for _, q := range authored {
		if err := Validate(&q); err != nil {
			logger.Warn("Skipping malformed quest definition",
				zap.String("questID", q.ID),
				zap.Error(err),
			)
			continue
		}
		if _, dup := seen[q.ID]; dup {
			logger.Warn("Skipping quest with duplicate id", zap.String("questID", q.ID))
			continue
		}
		seen[q.ID] = struct{}{}
		c.quests = append(c.quests, q)
	}
	// Index after the slice is final so the pointers stay valid.
	for i := range c.quests {
		c.byID[c.quests[i].ID] = &c.quests[i]
	}

	logger.Info("Quest catalog loaded",
		zap.Int("authored", len(authored)),
		zap.Int("playable", len(c.quests)),
	)
	return c, nil
}

// Validate checks a single quest's internal consistency: the intro scene must
// exist, every transition target must resolve within the quest, terminal
// scenes must not lead anywhere, and the reward must be non-negative.
func Validate(q *models.Quest) error {
	if q.ID == "" {
		return &DefinitionError{QuestID: q.ID, Reason: "missing quest id"}
	}
	if len(q.Scenes) == 0 {
		return &DefinitionError{QuestID: q.ID, Reason: "quest has no scenes"}
	}
	if q.XP < 0 {
		return &DefinitionError{QuestID: q.ID, Reason: "negative xp reward"}
	}
	if _, ok := q.Scenes[q.IntroSceneID]; !ok {
		return &DefinitionError{QuestID: q.ID, Reason: fmt.Sprintf("intro scene %q does not exist", q.IntroSceneID)}
	}
	for sceneID, scene := range q.Scenes {
		if scene.IsEnd && (len(scene.Choices) > 0 || scene.Next != "") {
			return &DefinitionError{QuestID: q.ID, Reason: fmt.Sprintf("terminal scene %q has outgoing transitions", sceneID)}
		}
		if scene.Next != "" {
			if _, ok := q.Scenes[scene.Next]; !ok {
				return &DefinitionError{QuestID: q.ID, Reason: fmt.Sprintf("scene %q advances to unknown scene %q", sceneID, scene.Next)}
			}
		}
		for _, choice := range scene.Choices {
			if _, ok := q.Scenes[choice.Next]; !ok {
				return &DefinitionError{QuestID: q.ID, Reason: fmt.Sprintf("scene %q has a choice to unknown scene %q", sceneID, choice.Next)}
			}
		}
	}
	return nil
}

// Quests returns all playable quests in authored order.
func (c *Catalog) Quests() []models.Quest {
	return c.quests
}

// QuestByID looks a quest up by its identifier.
func (c *Catalog) QuestByID(id string) (*models.Quest, error) {
	q, ok := c.byID[id]
	if !ok {
		return nil, models.ErrQuestNotFound
	}
	return q, nil
}

// Len reports the number of playable quests.
func (c *Catalog) Len() int {
	return len(c.quests)
}
