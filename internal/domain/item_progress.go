package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ItemProgress.
var (
	ErrEmptyProgressUserID = errors.New("item progress user ID cannot be empty")
	ErrEmptyProgressItemID = errors.New("item progress item ID cannot be empty")
	ErrInvalidStage        = errors.New("stage must be between 1 and 9")
	ErrNegativeCounter     = errors.New("answer counters cannot be negative")
	ErrBurnedMismatch      = errors.New("burned_at must be set if and only if stage is 9")
	ErrScheduleMismatch    = errors.New("next_review_at must be absent if and only if stage is 9")
)

// ItemProgress tracks one user's spaced-repetition state for a single
// learning item. A missing record is equivalent to stage 0 (not started);
// stage-0 rows are never persisted.
//
// Two invariants hold after every operation:
//   - NextReviewAt is nil if and only if Stage == 9
//   - BurnedAt is non-nil if and only if Stage == 9
type ItemProgress struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	ItemID           uuid.UUID  `json:"item_id"`
	ItemKind         ItemKind   `json:"item_kind"`
	Stage            int        `json:"stage"`
	MeaningCorrect   int        `json:"meaning_correct"`
	MeaningIncorrect int        `json:"meaning_incorrect"`
	ReadingCorrect   int        `json:"reading_correct"`
	ReadingIncorrect int        `json:"reading_incorrect"`
	UnlockedAt       time.Time  `json:"unlocked_at"`
	LastReviewedAt   *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt     *time.Time `json:"next_review_at,omitempty"`
	BurnedAt         *time.Time `json:"burned_at,omitempty"`
}

// NewItemProgress creates a progress record at the given stage. The
// caller is responsible for setting NextReviewAt (or BurnedAt for a
// direct burn) before persisting, since scheduling policy lives in the
// srs package.
func NewItemProgress(userID, itemID uuid.UUID, kind ItemKind, stage int, now time.Time) *ItemProgress {
	return &ItemProgress{
		ID:         uuid.New(),
		UserID:     userID,
		ItemID:     itemID,
		ItemKind:   kind,
		Stage:      stage,
		UnlockedAt: now,
	}
}

// IsBurned reports whether the item has reached the final stage and left
// the review pool.
func (p *ItemProgress) IsBurned() bool {
	return p.Stage == 9
}

// Validate checks field validity and the stage-9 invariants.
// Returns an error if any check fails.
func (p *ItemProgress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyProgressUserID
	}
	if p.ItemID == uuid.Nil {
		return ErrEmptyProgressItemID
	}
	if !p.ItemKind.IsValid() {
		return ErrInvalidItemKind
	}
	if p.Stage < 1 || p.Stage > 9 {
		return ErrInvalidStage
	}
	if p.MeaningCorrect < 0 || p.MeaningIncorrect < 0 ||
		p.ReadingCorrect < 0 || p.ReadingIncorrect < 0 {
		return ErrNegativeCounter
	}
	if (p.BurnedAt != nil) != (p.Stage == 9) {
		return ErrBurnedMismatch
	}
	if (p.NextReviewAt == nil) != (p.Stage == 9) {
		return ErrScheduleMismatch
	}
	return nil
}
