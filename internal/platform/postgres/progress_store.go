package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/platform/logger"
	"github.com/toriigate/torii-api/internal/store"
)

// progressColumns is the column list shared by every SELECT on
// item_progress, in scan order.
const progressColumns = `id, user_id, item_id, item_kind, stage,
	meaning_correct, meaning_incorrect, reading_correct, reading_incorrect,
	unlocked_at, last_reviewed_at, next_review_at, burned_at`

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx returns a new PostgresProgressStore bound to the given transaction.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{db: tx, logger: s.logger}
}

// scanProgress scans one item_progress row from the given scanner.
func scanProgress(row interface{ Scan(...any) error }) (*domain.ItemProgress, error) {
	var p domain.ItemProgress
	var kind string
	var lastReviewedAt, nextReviewAt, burnedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.ItemID,
		&kind,
		&p.Stage,
		&p.MeaningCorrect,
		&p.MeaningIncorrect,
		&p.ReadingCorrect,
		&p.ReadingIncorrect,
		&p.UnlockedAt,
		&lastReviewedAt,
		&nextReviewAt,
		&burnedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ItemKind = domain.ItemKind(kind)
	if lastReviewedAt.Valid {
		t := lastReviewedAt.Time
		p.LastReviewedAt = &t
	}
	if nextReviewAt.Valid {
		t := nextReviewAt.Time
		p.NextReviewAt = &t
	}
	if burnedAt.Valid {
		t := burnedAt.Time
		p.BurnedAt = &t
	}
	return &p, nil
}

// Get implements store.ProgressStore.Get
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
) (*domain.ItemProgress, error) {
	query := `SELECT ` + progressColumns + `
		FROM item_progress
		WHERE user_id = $1 AND item_id = $2 AND item_kind = $3`

	p, err := scanProgress(s.db.QueryRowContext(ctx, query, userID, itemID, string(kind)))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrProgressNotFound
		}
		return nil, MapError(err)
	}
	return p, nil
}

// GetByID implements store.ProgressStore.GetByID
func (s *PostgresProgressStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ItemProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM item_progress WHERE id = $1`

	p, err := scanProgress(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrProgressNotFound
		}
		return nil, MapError(err)
	}
	return p, nil
}

// GetByIDForUpdate implements store.ProgressStore.GetByIDForUpdate
// It takes a row-level lock, so it must run inside a transaction.
func (s *PostgresProgressStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.ItemProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM item_progress WHERE id = $1 FOR UPDATE`

	p, err := scanProgress(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrProgressNotFound
		}
		return nil, MapError(err)
	}
	return p, nil
}

// CreateIfAbsent implements store.ProgressStore.CreateIfAbsent
// The insert and the duplicate check are a single statement, so two
// concurrent learn requests for the same item cannot both create a row.
func (s *PostgresProgressStore) CreateIfAbsent(ctx context.Context, progress *domain.ItemProgress) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("progress validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()),
			slog.String("item_id", progress.ItemID.String()))
		return false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO item_progress (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id, item_id, item_kind) DO NOTHING
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		progress.ID,
		progress.UserID,
		progress.ItemID,
		string(progress.ItemKind),
		progress.Stage,
		progress.MeaningCorrect,
		progress.MeaningIncorrect,
		progress.ReadingCorrect,
		progress.ReadingIncorrect,
		progress.UnlockedAt,
		nullTime(progress.LastReviewedAt),
		nullTime(progress.NextReviewAt),
		nullTime(progress.BurnedAt),
	)
	if err != nil {
		log.Error("failed to create progress record",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()),
			slog.String("item_id", progress.ItemID.String()))
		return false, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}
	return rows > 0, nil
}

// Update implements store.ProgressStore.Update
func (s *PostgresProgressStore) Update(ctx context.Context, progress *domain.ItemProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("progress validation failed during update",
			slog.String("error", err.Error()),
			slog.String("progress_id", progress.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE item_progress
		SET stage = $1,
			meaning_correct = $2,
			meaning_incorrect = $3,
			reading_correct = $4,
			reading_incorrect = $5,
			last_reviewed_at = $6,
			next_review_at = $7,
			burned_at = $8
		WHERE id = $9
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		progress.Stage,
		progress.MeaningCorrect,
		progress.MeaningIncorrect,
		progress.ReadingCorrect,
		progress.ReadingIncorrect,
		nullTime(progress.LastReviewedAt),
		nullTime(progress.NextReviewAt),
		nullTime(progress.BurnedAt),
		progress.ID,
	)
	if err != nil {
		log.Error("failed to update progress record",
			slog.String("error", err.Error()),
			slog.String("progress_id", progress.ID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrProgressNotFound
	}
	return nil
}

// Burn implements store.ProgressStore.Burn
// A single upsert keyed by the natural unique constraint either creates
// the record directly at stage 9 or forces an existing record to stage 9
// while keeping its counters.
func (s *PostgresProgressStore) Burn(
	ctx context.Context,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
	now time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO item_progress (
			id, user_id, item_id, item_kind, stage,
			unlocked_at, next_review_at, burned_at
		)
		VALUES ($1, $2, $3, $4, 9, $5, NULL, $5)
		ON CONFLICT (user_id, item_id, item_kind) DO UPDATE SET
			stage = 9,
			next_review_at = NULL,
			burned_at = EXCLUDED.burned_at
	`
	_, err := s.db.ExecContext(ctx, query, uuid.New(), userID, itemID, string(kind), now)
	if err != nil {
		log.Error("failed to burn item",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()))
		return MapError(err)
	}

	log.Info("item burned",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("item_kind", string(kind)))
	return nil
}

// Unburn implements store.ProgressStore.Unburn
func (s *PostgresProgressStore) Unburn(
	ctx context.Context,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
	nextReviewAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE item_progress
		SET stage = 1, burned_at = NULL, next_review_at = $1
		WHERE user_id = $2 AND item_id = $3 AND item_kind = $4
	`
	result, err := s.db.ExecContext(ctx, query, nextReviewAt, userID, itemID, string(kind))
	if err != nil {
		log.Error("failed to unburn item",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrProgressNotFound
	}

	log.Info("item unburned",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("item_kind", string(kind)))
	return nil
}

// RecordLessonReview implements store.ProgressStore.RecordLessonReview
func (s *PostgresProgressStore) RecordLessonReview(
	ctx context.Context,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
	withReading bool,
	now time.Time,
) error {
	readingIncrement := 0
	if withReading {
		readingIncrement = 1
	}

	query := `
		UPDATE item_progress
		SET meaning_correct = meaning_correct + 1,
			reading_correct = reading_correct + $1,
			last_reviewed_at = $2
		WHERE user_id = $3 AND item_id = $4 AND item_kind = $5
	`
	result, err := s.db.ExecContext(ctx, query, readingIncrement, now, userID, itemID, string(kind))
	if err != nil {
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrProgressNotFound
	}
	return nil
}

// dueReviewQuery joins item_progress with the content tables. The WHERE
// clause is appended by callers.
const dueReviewSelect = `
	SELECT p.id, p.user_id, p.item_id, p.item_kind, p.stage,
		p.meaning_correct, p.meaning_incorrect, p.reading_correct, p.reading_incorrect,
		p.unlocked_at, p.last_reviewed_at, p.next_review_at, p.burned_at,
		i.id, i.lesson_id, i.kind, i.glyph, i.primary_meaning, i.meanings, i.readings, i.created_at,
		l.level
	FROM item_progress p
	JOIN items i ON i.id = p.item_id AND i.kind = p.item_kind
	JOIN lessons l ON l.id = i.lesson_id
`

// scanDueReviews drains the given rows into DueReview values.
func scanDueReviews(rows *sql.Rows) ([]store.DueReview, error) {
	var reviews []store.DueReview
	for rows.Next() {
		var r store.DueReview
		var progressKind, itemKind string
		var lastReviewedAt, nextReviewAt, burnedAt sql.NullTime
		var meanings, readings []byte

		err := rows.Scan(
			&r.Progress.ID,
			&r.Progress.UserID,
			&r.Progress.ItemID,
			&progressKind,
			&r.Progress.Stage,
			&r.Progress.MeaningCorrect,
			&r.Progress.MeaningIncorrect,
			&r.Progress.ReadingCorrect,
			&r.Progress.ReadingIncorrect,
			&r.Progress.UnlockedAt,
			&lastReviewedAt,
			&nextReviewAt,
			&burnedAt,
			&r.Item.ID,
			&r.Item.LessonID,
			&itemKind,
			&r.Item.Glyph,
			&r.Item.PrimaryMeaning,
			&meanings,
			&readings,
			&r.Item.CreatedAt,
			&r.Level,
		)
		if err != nil {
			return nil, err
		}

		r.Progress.ItemKind = domain.ItemKind(progressKind)
		r.Item.Kind = domain.ItemKind(itemKind)
		if lastReviewedAt.Valid {
			t := lastReviewedAt.Time
			r.Progress.LastReviewedAt = &t
		}
		if nextReviewAt.Valid {
			t := nextReviewAt.Time
			r.Progress.NextReviewAt = &t
		}
		if burnedAt.Valid {
			t := burnedAt.Time
			r.Progress.BurnedAt = &t
		}
		if len(meanings) > 0 {
			if err := json.Unmarshal(meanings, &r.Item.Meanings); err != nil {
				return nil, fmt.Errorf("failed to decode item meanings: %w", err)
			}
		}
		if len(readings) > 0 {
			if err := json.Unmarshal(readings, &r.Item.Readings); err != nil {
				return nil, fmt.Errorf("failed to decode item readings: %w", err)
			}
		}

		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []store.DueReview{}
	}
	return reviews, nil
}

// FindDue implements store.ProgressStore.FindDue
// Most fragile items come first: lower stages before higher stages,
// older due dates before newer ones.
func (s *PostgresProgressStore) FindDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]store.DueReview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 100
	}

	query := dueReviewSelect + `
		WHERE p.user_id = $1 AND p.stage >= 1 AND p.stage < 9 AND p.next_review_at <= $2
		ORDER BY p.stage ASC, p.next_review_at ASC
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, now, limit)
	if err != nil {
		log.Error("failed to query due reviews",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	return scanDueReviews(rows)
}

// CountDue implements store.ProgressStore.CountDue
func (s *PostgresProgressStore) CountDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (map[domain.ItemKind]int, error) {
	query := `
		SELECT item_kind, COUNT(*)
		FROM item_progress
		WHERE user_id = $1 AND stage >= 1 AND stage < 9 AND next_review_at <= $2
		GROUP BY item_kind
	`
	rows, err := s.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	counts := map[domain.ItemKind]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, MapError(err)
		}
		counts[domain.ItemKind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return counts, nil
}

// CountDueByLevel implements store.ProgressStore.CountDueByLevel
func (s *PostgresProgressStore) CountDueByLevel(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]store.DueCount, error) {
	query := `
		SELECT p.item_kind, l.level, COUNT(*)
		FROM item_progress p
		JOIN items i ON i.id = p.item_id AND i.kind = p.item_kind
		JOIN lessons l ON l.id = i.lesson_id
		WHERE p.user_id = $1 AND p.stage >= 1 AND p.stage < 9 AND p.next_review_at <= $2
		GROUP BY p.item_kind, l.level
	`
	rows, err := s.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var counts []store.DueCount
	for rows.Next() {
		var kind string
		var c store.DueCount
		if err := rows.Scan(&kind, &c.Level, &c.Count); err != nil {
			return nil, MapError(err)
		}
		c.Kind = domain.ItemKind(kind)
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return counts, nil
}

// StartedCountByLesson implements store.ProgressStore.StartedCountByLesson
func (s *PostgresProgressStore) StartedCountByLesson(
	ctx context.Context,
	userID uuid.UUID,
) (map[uuid.UUID]int, error) {
	query := `
		SELECT i.lesson_id, COUNT(*)
		FROM item_progress p
		JOIN items i ON i.id = p.item_id AND i.kind = p.item_kind
		WHERE p.user_id = $1
		GROUP BY i.lesson_id
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	counts := map[uuid.UUID]int{}
	for rows.Next() {
		var lessonID uuid.UUID
		var n int
		if err := rows.Scan(&lessonID, &n); err != nil {
			return nil, MapError(err)
		}
		counts[lessonID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return counts, nil
}

// FindBurned implements store.ProgressStore.FindBurned
func (s *PostgresProgressStore) FindBurned(ctx context.Context, userID uuid.UUID) ([]store.DueReview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := dueReviewSelect + `
		WHERE p.user_id = $1 AND p.stage = 9
		ORDER BY p.burned_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query burned items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	return scanDueReviews(rows)
}

// CountByStage implements store.ProgressStore.CountByStage
func (s *PostgresProgressStore) CountByStage(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
) (store.StageCounts, error) {
	query := `
		SELECT stage, COUNT(*)
		FROM item_progress
		WHERE user_id = $1 AND item_kind = $2
		GROUP BY stage
	`
	rows, err := s.db.QueryContext(ctx, query, userID, string(kind))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	counts := store.StageCounts{}
	for rows.Next() {
		var stage, n int
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, MapError(err)
		}
		counts[stage] = n
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return counts, nil
}

// Accuracy implements store.ProgressStore.Accuracy
func (s *PostgresProgressStore) Accuracy(ctx context.Context, userID uuid.UUID) (store.AccuracyTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(meaning_correct + reading_correct), 0),
			COALESCE(SUM(meaning_incorrect + reading_incorrect), 0)
		FROM item_progress
		WHERE user_id = $1
	`
	var totals store.AccuracyTotals
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&totals.Correct, &totals.Incorrect)
	if err != nil {
		return store.AccuracyTotals{}, MapError(err)
	}
	return totals, nil
}

// NextUpcomingReview implements store.ProgressStore.NextUpcomingReview
func (s *PostgresProgressStore) NextUpcomingReview(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (*time.Time, error) {
	query := `
		SELECT next_review_at
		FROM item_progress
		WHERE user_id = $1 AND stage >= 1 AND stage < 9 AND next_review_at > $2
		ORDER BY next_review_at ASC
		LIMIT 1
	`
	var at time.Time
	err := s.db.QueryRowContext(ctx, query, userID, now).Scan(&at)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, nil
		}
		return nil, MapError(err)
	}
	return &at, nil
}

// nullTime converts an optional time to its database representation.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
