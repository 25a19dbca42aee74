package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
)

// DueReview is a due progress record joined with its item content and
// the content level the item belongs to, as returned by FindDue and
// FindBurned.
type DueReview struct {
	Progress domain.ItemProgress
	Item     domain.Item
	Level    int
}

// StageCounts maps an SRS stage to the number of progress records at
// that stage for one item kind.
type StageCounts map[int]int

// DueCount is the number of due records of one kind at one content
// level, as returned by CountDueByLevel.
type DueCount struct {
	Kind  domain.ItemKind
	Level int
	Count int
}

// AccuracyTotals aggregates lifetime answer counters across all of a
// user's progress records.
type AccuracyTotals struct {
	Correct   int
	Incorrect int
}

// ProgressStore defines the interface for item progress persistence.
//
// Concurrent requests may race on the same (user, item, kind) row, so
// every mutation is either a single conditional insert-or-update
// statement keyed by that unique constraint (CreateIfAbsent, Burn,
// Unburn, RecordLessonReview) or a locked read-modify-write inside a
// transaction (GetByIDForUpdate followed by Update). Callers never use
// a separate existence check followed by a write.
type ProgressStore interface {
	// Get retrieves a progress record by the (user, item, kind) natural key.
	// Returns ErrProgressNotFound if no record exists (the item is at
	// stage 0 for this user).
	Get(ctx context.Context, userID, itemID uuid.UUID, kind domain.ItemKind) (*domain.ItemProgress, error)

	// GetByID retrieves a progress record by its row ID.
	// Returns ErrProgressNotFound if the record does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ItemProgress, error)

	// GetByIDForUpdate retrieves a progress record by row ID with a
	// row-level lock (SELECT FOR UPDATE). Must be called within a
	// transaction when the caller intends to update the row.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.ItemProgress, error)

	// CreateIfAbsent inserts the record unless one already exists for the
	// same (user, item, kind); the existing record is left untouched.
	// Returns true if the insert happened. The record must validate.
	CreateIfAbsent(ctx context.Context, progress *domain.ItemProgress) (bool, error)

	// Update replaces the mutable fields of an existing record identified
	// by its row ID. Returns ErrProgressNotFound if the record does not
	// exist. The record must validate.
	Update(ctx context.Context, progress *domain.ItemProgress) error

	// Burn forces the record to stage 9 with burned_at = now and no next
	// review, creating it directly at stage 9 if absent. Counters and
	// unlocked_at of an existing record are preserved. Idempotent.
	Burn(ctx context.Context, userID, itemID uuid.UUID, kind domain.ItemKind, now time.Time) error

	// Unburn resets an existing record to stage 1 with the given next
	// review time and clears burned_at.
	// Returns ErrProgressNotFound if the record does not exist.
	Unburn(ctx context.Context, userID, itemID uuid.UUID, kind domain.ItemKind, nextReviewAt time.Time) error

	// RecordLessonReview increments the correct counters of an existing
	// record in place (meaning always, reading when withReading is set)
	// and stamps last_reviewed_at, leaving stage and schedule untouched.
	// Returns ErrProgressNotFound if the record does not exist.
	RecordLessonReview(ctx context.Context, userID, itemID uuid.UUID, kind domain.ItemKind, withReading bool, now time.Time) error

	// FindDue returns records with 1 <= stage < 9 and next_review_at <= now,
	// joined with item content, ordered by stage ascending then
	// next_review_at ascending, limited to limit rows.
	FindDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]DueReview, error)

	// CountDue returns the number of due records per item kind.
	CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (map[domain.ItemKind]int, error)

	// CountDueByLevel returns the number of due records per item kind
	// and content level, so callers can restrict counts to the levels a
	// subscription covers.
	CountDueByLevel(ctx context.Context, userID uuid.UUID, now time.Time) ([]DueCount, error)

	// StartedCountByLesson returns, per lesson, how many of the user's
	// progress records exist for items of that lesson (any stage >= 1).
	StartedCountByLesson(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int, error)

	// FindBurned returns all stage-9 records joined with item content,
	// ordered by burned_at descending.
	FindBurned(ctx context.Context, userID uuid.UUID) ([]DueReview, error)

	// CountByStage returns the user's stage histogram per item kind.
	CountByStage(ctx context.Context, userID uuid.UUID, kind domain.ItemKind) (StageCounts, error)

	// Accuracy returns the user's lifetime correct/incorrect totals
	// summed over meaning and reading counters of both kinds.
	Accuracy(ctx context.Context, userID uuid.UUID) (AccuracyTotals, error)

	// NextUpcomingReview returns the earliest next_review_at strictly
	// after now, or nil if nothing is scheduled.
	NextUpcomingReview(ctx context.Context, userID uuid.UUID, now time.Time) (*time.Time, error)

	// WithTx returns a ProgressStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
