package models

import (
	"time"

	"github.com/google/uuid"
)

// SafetyVideo is a generated educational video script.
type SafetyVideo struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Script          string    `json:"script"`
	DurationSeconds int       `json:"duration"`
	GeneratedAt     time.Time `json:"generatedAt"`
}
