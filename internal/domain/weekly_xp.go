package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for WeeklyXP.
var (
	ErrEmptyXPUserID    = errors.New("weekly XP user ID cannot be empty")
	ErrNegativeXP       = errors.New("weekly XP cannot be negative")
	ErrInvalidWeekRange = errors.New("week end must follow week start")
)

// WeeklyXP is one user's experience accumulator for a single
// Monday-aligned calendar week. Rows are created lazily on first credit
// and only ever incremented, never rewritten.
type WeeklyXP struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`
	XP        int       `json:"xp"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the WeeklyXP has valid data.
func (w *WeeklyXP) Validate() error {
	if w.UserID == uuid.Nil {
		return ErrEmptyXPUserID
	}
	if w.XP < 0 {
		return ErrNegativeXP
	}
	if !w.WeekEnd.After(w.WeekStart) {
		return ErrInvalidWeekRange
	}
	return nil
}
