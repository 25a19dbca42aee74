package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
)

// WeeklyStanding is one row of the weekly leaderboard: a user's XP for
// the week joined with their display data.
type WeeklyStanding struct {
	UserID         uuid.UUID
	Email          string
	Username       string
	UsernameHidden bool
	XP             int
}

// WeeklyXPStore defines the interface for the weekly XP ledger.
type WeeklyXPStore interface {
	// AddXP credits amount to the user's row for the week starting at
	// weekStart, creating the row if it does not exist. The credit is a
	// single atomic upsert keyed by (user_id, week_start); rows are only
	// ever incremented, never overwritten. amount must be positive.
	AddXP(ctx context.Context, userID uuid.UUID, weekStart, weekEnd time.Time, amount int) error

	// GetWeek retrieves the user's row for the given week start.
	// Returns ErrWeeklyXPNotFound if the user earned nothing that week.
	GetWeek(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*domain.WeeklyXP, error)

	// ListWeek returns every standing with positive XP for the given week,
	// ordered by XP descending with ties broken by user ID ascending so
	// the ranking is stable across queries.
	ListWeek(ctx context.Context, weekStart time.Time) ([]WeeklyStanding, error)

	// WithTx returns a WeeklyXPStore bound to the provided transaction.
	WithTx(tx *sql.Tx) WeeklyXPStore
}
