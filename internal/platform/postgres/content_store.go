package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/platform/logger"
	"github.com/toriigate/torii-api/internal/store"
)

// PostgresContentStore implements the store.ContentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresContentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContentStore creates a new PostgreSQL implementation of the
// ContentStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresContentStore(db store.DBTX, logger *slog.Logger) *PostgresContentStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresContentStore{
		db:     db,
		logger: logger.With(slog.String("component", "content_store")),
	}
}

// Ensure PostgresContentStore implements store.ContentStore interface
var _ store.ContentStore = (*PostgresContentStore)(nil)

// WithTx returns a new PostgresContentStore bound to the given transaction.
func (s *PostgresContentStore) WithTx(tx *sql.Tx) store.ContentStore {
	return &PostgresContentStore{db: tx, logger: s.logger}
}

// ListLessons implements store.ContentStore.ListLessons
func (s *PostgresContentStore) ListLessons(ctx context.Context) ([]*domain.Lesson, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, level, title, description, created_at
		FROM lessons
		ORDER BY level ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query lessons", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var lessons []*domain.Lesson
	for rows.Next() {
		var l domain.Lesson
		if err := rows.Scan(&l.ID, &l.Level, &l.Title, &l.Description, &l.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		lessons = append(lessons, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	if lessons == nil {
		lessons = []*domain.Lesson{}
	}
	return lessons, nil
}

// GetLesson implements store.ContentStore.GetLesson
func (s *PostgresContentStore) GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	query := `
		SELECT id, level, title, description, created_at
		FROM lessons
		WHERE id = $1
	`
	var l domain.Lesson
	err := s.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.Level, &l.Title, &l.Description, &l.CreatedAt)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrLessonNotFound
		}
		return nil, MapError(err)
	}
	return &l, nil
}

// GetLessonByLevel implements store.ContentStore.GetLessonByLevel
func (s *PostgresContentStore) GetLessonByLevel(ctx context.Context, level int) (*domain.Lesson, error) {
	query := `
		SELECT id, level, title, description, created_at
		FROM lessons
		WHERE level = $1
	`
	var l domain.Lesson
	err := s.db.QueryRowContext(ctx, query, level).Scan(&l.ID, &l.Level, &l.Title, &l.Description, &l.CreatedAt)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrLessonNotFound
		}
		return nil, MapError(err)
	}
	return &l, nil
}

// GetItem implements store.ContentStore.GetItem
func (s *PostgresContentStore) GetItem(
	ctx context.Context,
	itemID uuid.UUID,
	kind domain.ItemKind,
) (*domain.Item, error) {
	query := `
		SELECT id, lesson_id, kind, glyph, primary_meaning, meanings, readings, created_at
		FROM items
		WHERE id = $1 AND kind = $2
	`
	var item domain.Item
	var itemKind string
	var meanings, readings []byte

	err := s.db.QueryRowContext(ctx, query, itemID, string(kind)).Scan(
		&item.ID,
		&item.LessonID,
		&itemKind,
		&item.Glyph,
		&item.PrimaryMeaning,
		&meanings,
		&readings,
		&item.CreatedAt,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrItemNotFound
		}
		return nil, MapError(err)
	}

	item.Kind = domain.ItemKind(itemKind)
	if len(meanings) > 0 {
		if err := json.Unmarshal(meanings, &item.Meanings); err != nil {
			return nil, fmt.Errorf("failed to decode item meanings: %w", err)
		}
	}
	if len(readings) > 0 {
		if err := json.Unmarshal(readings, &item.Readings); err != nil {
			return nil, fmt.Errorf("failed to decode item readings: %w", err)
		}
	}
	return &item, nil
}

// GetItemLevel implements store.ContentStore.GetItemLevel
func (s *PostgresContentStore) GetItemLevel(
	ctx context.Context,
	itemID uuid.UUID,
	kind domain.ItemKind,
) (int, error) {
	query := `
		SELECT l.level
		FROM items i
		JOIN lessons l ON l.id = i.lesson_id
		WHERE i.id = $1 AND i.kind = $2
	`
	var level int
	err := s.db.QueryRowContext(ctx, query, itemID, string(kind)).Scan(&level)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return 0, store.ErrItemNotFound
		}
		return 0, MapError(err)
	}
	return level, nil
}

// ItemCountsByLesson implements store.ContentStore.ItemCountsByLesson
func (s *PostgresContentStore) ItemCountsByLesson(ctx context.Context) (map[uuid.UUID]store.ItemCounts, error) {
	query := `
		SELECT lesson_id,
			COUNT(*) FILTER (WHERE kind = 'character'),
			COUNT(*) FILTER (WHERE kind = 'word')
		FROM items
		GROUP BY lesson_id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	counts := map[uuid.UUID]store.ItemCounts{}
	for rows.Next() {
		var lessonID uuid.UUID
		var c store.ItemCounts
		if err := rows.Scan(&lessonID, &c.Characters, &c.Words); err != nil {
			return nil, MapError(err)
		}
		counts[lessonID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return counts, nil
}

// scanItemKeys drains the given rows into ItemKey values.
func scanItemKeys(rows *sql.Rows) ([]store.ItemKey, error) {
	var keys []store.ItemKey
	for rows.Next() {
		var key store.ItemKey
		var kind string
		if err := rows.Scan(&key.ID, &kind); err != nil {
			return nil, MapError(err)
		}
		key.Kind = domain.ItemKind(kind)
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	if keys == nil {
		keys = []store.ItemKey{}
	}
	return keys, nil
}

// ItemKeysByLesson implements store.ContentStore.ItemKeysByLesson
func (s *PostgresContentStore) ItemKeysByLesson(ctx context.Context, lessonID uuid.UUID) ([]store.ItemKey, error) {
	query := `
		SELECT id, kind
		FROM items
		WHERE lesson_id = $1
	`
	rows, err := s.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanItemKeys(rows)
}

// ItemKeysBelowLevel implements store.ContentStore.ItemKeysBelowLevel
func (s *PostgresContentStore) ItemKeysBelowLevel(ctx context.Context, level int) ([]store.ItemKey, error) {
	query := `
		SELECT i.id, i.kind
		FROM items i
		JOIN lessons l ON l.id = i.lesson_id
		WHERE l.level < $1
		ORDER BY l.level ASC
	`
	rows, err := s.db.QueryContext(ctx, query, level)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanItemKeys(rows)
}
