package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/platform/logger"
	"github.com/toriigate/torii-api/internal/store"
)

// PostgresWeeklyXPStore implements the store.WeeklyXPStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWeeklyXPStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWeeklyXPStore creates a new PostgreSQL implementation of the
// WeeklyXPStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresWeeklyXPStore(db store.DBTX, logger *slog.Logger) *PostgresWeeklyXPStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWeeklyXPStore{
		db:     db,
		logger: logger.With(slog.String("component", "weekly_xp_store")),
	}
}

// Ensure PostgresWeeklyXPStore implements store.WeeklyXPStore interface
var _ store.WeeklyXPStore = (*PostgresWeeklyXPStore)(nil)

// WithTx returns a new PostgresWeeklyXPStore bound to the given transaction.
func (s *PostgresWeeklyXPStore) WithTx(tx *sql.Tx) store.WeeklyXPStore {
	return &PostgresWeeklyXPStore{db: tx, logger: s.logger}
}

// AddXP implements store.WeeklyXPStore.AddXP
// The increment rides on the unique (user_id, week_start) constraint, so
// concurrent credits for the same user and week serialize on the row
// instead of losing updates.
func (s *PostgresWeeklyXPStore) AddXP(
	ctx context.Context,
	userID uuid.UUID,
	weekStart, weekEnd time.Time,
	amount int,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO weekly_xp (id, user_id, week_start, week_end, xp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id, week_start) DO UPDATE SET
			xp = weekly_xp.xp + EXCLUDED.xp,
			updated_at = NOW()
	`
	_, err := s.db.ExecContext(ctx, query, uuid.New(), userID, weekStart, weekEnd, amount)
	if err != nil {
		log.Error("failed to add weekly xp",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("amount", amount))
		return MapError(err)
	}

	log.Debug("weekly xp credited",
		slog.String("user_id", userID.String()),
		slog.Int("amount", amount),
		slog.Time("week_start", weekStart))
	return nil
}

// GetWeek implements store.WeeklyXPStore.GetWeek
func (s *PostgresWeeklyXPStore) GetWeek(
	ctx context.Context,
	userID uuid.UUID,
	weekStart time.Time,
) (*domain.WeeklyXP, error) {
	query := `
		SELECT id, user_id, week_start, week_end, xp, created_at, updated_at
		FROM weekly_xp
		WHERE user_id = $1 AND week_start = $2
	`
	var entry domain.WeeklyXP
	err := s.db.QueryRowContext(ctx, query, userID, weekStart).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.WeekStart,
		&entry.WeekEnd,
		&entry.XP,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrWeeklyXPNotFound
		}
		return nil, MapError(err)
	}
	return &entry, nil
}

// ListWeek implements store.WeeklyXPStore.ListWeek
// Rows with zero XP never appear; ties break on user ID so the ordering
// is stable across requests.
func (s *PostgresWeeklyXPStore) ListWeek(ctx context.Context, weekStart time.Time) ([]store.WeeklyStanding, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT w.user_id, u.email, COALESCE(u.username, ''), u.username_hidden, w.xp
		FROM weekly_xp w
		JOIN users u ON u.id = w.user_id
		WHERE w.week_start = $1 AND w.xp > 0
		ORDER BY w.xp DESC, w.user_id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, weekStart)
	if err != nil {
		log.Error("failed to query weekly standings",
			slog.String("error", err.Error()),
			slog.Time("week_start", weekStart))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var standings []store.WeeklyStanding
	for rows.Next() {
		var st store.WeeklyStanding
		if err := rows.Scan(&st.UserID, &st.Email, &st.Username, &st.UsernameHidden, &st.XP); err != nil {
			return nil, MapError(err)
		}
		standings = append(standings, st)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	if standings == nil {
		standings = []store.WeeklyStanding{}
	}
	return standings, nil
}
