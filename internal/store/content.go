package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
)

// ItemKey is the natural identity of one item, as returned by the bulk
// item listings used for skip-ahead.
type ItemKey struct {
	ID   uuid.UUID
	Kind domain.ItemKind
}

// ItemCounts holds the number of items of each kind inside a lesson.
type ItemCounts struct {
	Characters int
	Words      int
}

// Total returns the combined item count.
func (c ItemCounts) Total() int {
	return c.Characters + c.Words
}

// ContentStore defines read access to the content tables (lessons and
// items). Content is seeded out of band and treated as immutable by the
// engine.
type ContentStore interface {
	// ListLessons returns all lessons ordered by level ascending.
	ListLessons(ctx context.Context) ([]*domain.Lesson, error)

	// GetLesson retrieves a lesson by its ID.
	// Returns ErrLessonNotFound if the lesson does not exist.
	GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// GetLessonByLevel retrieves a lesson by its level.
	// Returns ErrLessonNotFound if no lesson exists at that level.
	GetLessonByLevel(ctx context.Context, level int) (*domain.Lesson, error)

	// GetItem retrieves an item by ID and kind.
	// Returns ErrItemNotFound if the item does not exist.
	GetItem(ctx context.Context, itemID uuid.UUID, kind domain.ItemKind) (*domain.Item, error)

	// GetItemLevel returns the content level of the lesson the item
	// belongs to. Returns ErrItemNotFound if the item does not exist.
	GetItemLevel(ctx context.Context, itemID uuid.UUID, kind domain.ItemKind) (int, error)

	// ItemCountsByLesson returns, per lesson ID, how many items of each
	// kind the lesson contains.
	ItemCountsByLesson(ctx context.Context) (map[uuid.UUID]ItemCounts, error)

	// ItemKeysByLesson returns the identities of every item in the
	// lesson.
	ItemKeysByLesson(ctx context.Context, lessonID uuid.UUID) ([]ItemKey, error)

	// ItemKeysBelowLevel returns the identities of every item in
	// lessons below the given level, ordered by level ascending.
	ItemKeysBelowLevel(ctx context.Context, level int) ([]ItemKey, error)

	// WithTx returns a ContentStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ContentStore
}
