package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel grades how dangerous a threat or a scanned message is.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Threat is one entry in the digital-threat feed shown on the dashboard.
type Threat struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Type        string    `db:"type" json:"type"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Risk        RiskLevel `db:"risk" json:"risk"`
	Location    string    `db:"location" json:"location"`
	AIAnalysis  string    `db:"ai_analysis" json:"aiAnalysis"`
	IsRead      bool      `db:"is_read" json:"isRead"`
	CreatedAt   time.Time `db:"created_at" json:"timestamp"`
}
