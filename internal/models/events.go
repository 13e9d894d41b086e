package models

import (
	"time"

	"github.com/google/uuid"
)

// ChoiceEvent is published for every accepted quest transition. The choice
// type/text are analytics metadata only and never drive gameplay.
type ChoiceEvent struct {
	UserID     uuid.UUID  `json:"user_id"`
	QuestID    string     `json:"quest_id"`
	SceneID    string     `json:"scene_id"`
	NextID     string     `json:"next_id"`
	ChoiceText string     `json:"choice_text,omitempty"`
	ChoiceType ChoiceType `json:"choice_type,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// CompletionEvent is published once when a quest's rewards are first committed.
type CompletionEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	QuestID    string    `json:"quest_id"`
	XP         int       `json:"xp"`
	Badge      string    `json:"badge"`
	OccurredAt time.Time `json:"occurred_at"`
}
