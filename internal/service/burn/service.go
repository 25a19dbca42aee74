// Package burn implements manual retirement of items from the review
// queue and their restoration.
package burn

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
)

// BurnedItem is one retired item with its final counters.
type BurnedItem struct {
	ItemID         uuid.UUID       `json:"itemId"`
	Kind           domain.ItemKind `json:"kind"`
	Level          int             `json:"level"`
	Glyph          string          `json:"glyph"`
	PrimaryMeaning string          `json:"primaryMeaning"`
	Meanings       []string        `json:"meanings"`
	Readings       []string        `json:"readings"`
	BurnedAt       *time.Time      `json:"burnedAt"`
}

// BurnedItems is the full burned collection of one user.
type BurnedItems struct {
	Items      []BurnedItem `json:"items"`
	Characters int          `json:"characters"`
	Words      int          `json:"words"`
}

// SkipResult reports how many items of each kind a skip retired.
type SkipResult struct {
	Characters int `json:"characters"`
	Words      int `json:"words"`
}

// BurnService provides manual burn operations for one user.
type BurnService interface {
	// BurnItem retires an item from the review queue. Items never
	// studied are retired directly; already burned items are left
	// untouched. Manual burns earn no XP.
	BurnItem(ctx context.Context, userID, itemID uuid.UUID, kind domain.ItemKind) error

	// UnburnItem returns a burned item to the start of the schedule:
	// first stage, reviewable after the first interval.
	// Returns ErrNotBurned if the item is not currently burned.
	UnburnItem(ctx context.Context, userID, itemID uuid.UUID, kind domain.ItemKind) error

	// GetBurned lists the user's burned items, most recent first.
	GetBurned(ctx context.Context, userID uuid.UUID) (*BurnedItems, error)

	// SkipToLevel retires every item below the given level in one
	// transaction, so a learner arriving with prior knowledge can start
	// partway up the curriculum. Skips earn no XP.
	// Returns ErrAccessDenied if the user's plan does not cover the
	// target level.
	SkipToLevel(ctx context.Context, userID uuid.UUID, startLevel int) (*SkipResult, error)

	// SkipLesson retires every item of the introductory kana lesson.
	// Only the level-0 lesson can be skipped this way.
	SkipLesson(ctx context.Context, userID, lessonID uuid.UUID) (*SkipResult, error)
}

// Common error types for BurnService
var (
	// ErrItemNotFound indicates the referenced item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrNotBurned indicates the item is not burned and cannot be
	// restored.
	ErrNotBurned = errors.New("item is not burned")

	// ErrLessonNotFound indicates the referenced lesson does not exist.
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrLessonNotSkippable indicates the lesson is not the
	// introductory kana lesson.
	ErrLessonNotSkippable = errors.New("lesson cannot be skipped")

	// ErrAccessDenied indicates the user's plan does not cover the
	// target level.
	ErrAccessDenied = errors.New("access to level denied")
)
