package models

import (
	"time"

	"github.com/google/uuid"
)

// Progress is the durable per-user reward ledger. It is always read and
// replaced as a whole record, never patched field by field.
type Progress struct {
	UserID          uuid.UUID `json:"userId"`
	XP              int       `json:"xp"`
	Badges          []string  `json:"badges"`
	CompletedQuests []string  `json:"completedQuests"`
	GeneratedCards  []string  `json:"generatedCards"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewProgress returns the zero-valued ledger for a user that has not played yet.
func NewProgress(userID uuid.UUID) *Progress {
	return &Progress{
		UserID:          userID,
		Badges:          []string{},
		CompletedQuests: []string{},
		GeneratedCards:  []string{},
	}
}

// Level derives the display level from accumulated XP. Every 100 XP is one level.
func Level(xp int) int {
	return xp/100 + 1
}

// Level reports the level for the ledger's current XP.
func (p *Progress) Level() int {
	return Level(p.XP)
}

// HasCompleted reports whether the quest's rewards were already committed.
func (p *Progress) HasCompleted(questID string) bool {
	return contains(p.CompletedQuests, questID)
}

// HasBadge reports whether the badge was unlocked at least once.
func (p *Progress) HasBadge(badge string) bool {
	return contains(p.Badges, badge)
}

// HasGeneratedCard reports whether a share card was already produced for the badge.
func (p *Progress) HasGeneratedCard(badge string) bool {
	return contains(p.GeneratedCards, badge)
}

// Clone returns a deep copy so callers can mutate without aliasing the stored record.
func (p *Progress) Clone() *Progress {
	cp := *p
	cp.Badges = append([]string{}, p.Badges...)
	cp.CompletedQuests = append([]string{}, p.CompletedQuests...)
	cp.GeneratedCards = append([]string{}, p.GeneratedCards...)
	return &cp
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
