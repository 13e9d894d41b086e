package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus is the moderation lifecycle of an abuse report.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportReviewed ReportStatus = "reviewed"
	ReportResolved ReportStatus = "resolved"
)

// ReportCategories is the fixed set of categories a report may use.
var ReportCategories = []string{
	"Harassment",
	"Scam/Fraud",
	"Photo Leak",
	"Threats",
	"Impersonation",
	"Spam",
	"Other",
}

// Report is a user-submitted abuse report. Anonymous reports keep the
// submitting user id for dedup/rate purposes but never expose it.
type Report struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"-"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Status      ReportStatus `json:"status"`
	Anonymous   bool         `json:"anonymous"`
	CreatedAt   time.Time    `json:"timestamp"`
}

// ValidReportCategory reports whether the category is one of the fixed set.
func ValidReportCategory(category string) bool {
	for _, c := range ReportCategories {
		if c == category {
			return true
		}
	}
	return false
}
