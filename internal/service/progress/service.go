// Package progress aggregates a user's SRS state into the summary view.
package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// KindSummary is the stage breakdown for one item kind.
type KindSummary struct {
	StageCounts map[int]int `json:"stageCounts"`
	Learned     int         `json:"learned"`
	Burned      int         `json:"burned"`
}

// Summary is the full progress overview for one user.
type Summary struct {
	Characters        KindSummary `json:"characters"`
	Words             KindSummary `json:"words"`
	PendingCharacters int         `json:"pendingCharacters"`
	PendingWords      int         `json:"pendingWords"`
	AccuracyPercent   float64     `json:"accuracyPercent"`
	TotalAnswers      int         `json:"totalAnswers"`
	NextReviewAt      *time.Time  `json:"nextReviewAt"`
}

// ProgressService provides read access to a user's aggregate progress.
type ProgressService interface {
	// GetSummary returns stage histograms, due counts, answer accuracy,
	// and the next upcoming review time.
	GetSummary(ctx context.Context, userID uuid.UUID) (*Summary, error)
}
