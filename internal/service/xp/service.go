package xp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is one row of the weekly standings.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"userId"`
	DisplayName string    `json:"displayName"`
	XP          int       `json:"xp"`
	IsCurrent   bool      `json:"isCurrentUser"`
}

// Leaderboard is the weekly standings as seen by one user.
//
// Top holds the leading entries. CurrentUser is always present and
// carries Rank 0 when the caller has earned nothing this week. Context
// holds the entries surrounding the caller when their rank falls
// outside Top, otherwise it is empty.
type Leaderboard struct {
	Top              []LeaderboardEntry `json:"top"`
	CurrentUser      LeaderboardEntry   `json:"currentUser"`
	Context          []LeaderboardEntry `json:"context"`
	TotalActiveUsers int                `json:"totalActiveUsers"`
	WeekStart        time.Time          `json:"weekStart"`
	WeekEnd          time.Time          `json:"weekEnd"`
}

// Service provides read access to the weekly XP standings.
type Service interface {
	// GetLeaderboard returns the current week's standings from the
	// perspective of the given user.
	GetLeaderboard(ctx context.Context, userID uuid.UUID, now time.Time) (*Leaderboard, error)
}

// Common error types for the XP service
var (
	// ErrUserNotFound indicates the requesting user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
