package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account with its safety profile.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Country      string    `json:"country"`
	AgeRange     string    `json:"ageRange"`
	Interests    []string  `json:"interests"`
	SafetyScore  int       `json:"safetyScore"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActiveAt time.Time `json:"lastActive"`
}
