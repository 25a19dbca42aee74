package xp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/platform/logger"
	"github.com/toriigate/torii-api/internal/store"
)

// topSize is how many leading entries the leaderboard shows. When fewer
// users are active, all of them appear.
const topSize = 10

// contextRadius is how many neighbors appear on each side of the caller
// when their rank falls outside the top.
const contextRadius = 2

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	xpStore   store.WeeklyXPStore
	userStore store.UserStore
	ledger    *Ledger
	logger    *slog.Logger
}

// NewService creates the weekly XP standings service.
func NewService(
	xpStore store.WeeklyXPStore,
	userStore store.UserStore,
	ledger *Ledger,
	logger *slog.Logger,
) Service {
	if xpStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("xpStore cannot be nil")
	}
	if userStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userStore cannot be nil")
	}
	if ledger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("ledger cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		xpStore:   xpStore,
		userStore: userStore,
		ledger:    ledger,
		logger:    logger.With(slog.String("component", "xp_service")),
	}
}

// GetLeaderboard implements Service.GetLeaderboard.
func (s *serviceImpl) GetLeaderboard(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (*Leaderboard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	weekStart, weekEnd := s.ledger.WeekWindow(now)

	standings, err := s.xpStore.ListWeek(ctx, weekStart)
	if err != nil {
		log.Error("failed to list weekly standings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list weekly standings: %w", err)
	}

	entries := make([]LeaderboardEntry, len(standings))
	callerIdx := -1
	for i, st := range standings {
		u := domain.User{
			ID:             st.UserID,
			Email:          st.Email,
			Username:       st.Username,
			UsernameHidden: st.UsernameHidden,
		}
		entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			UserID:      st.UserID,
			DisplayName: u.DisplayName(),
			XP:          st.XP,
			IsCurrent:   st.UserID == userID,
		}
		if st.UserID == userID {
			callerIdx = i
		}
	}

	board := &Leaderboard{
		Context:          []LeaderboardEntry{},
		TotalActiveUsers: len(entries),
		WeekStart:        weekStart,
		WeekEnd:          weekEnd,
	}

	topN := topSize
	if len(entries) < topN {
		topN = len(entries)
	}
	board.Top = append([]LeaderboardEntry{}, entries[:topN]...)

	if callerIdx >= 0 {
		board.CurrentUser = entries[callerIdx]
		if callerIdx >= topN {
			lo := callerIdx - contextRadius
			if lo < 0 {
				lo = 0
			}
			hi := callerIdx + contextRadius + 1
			if hi > len(entries) {
				hi = len(entries)
			}
			board.Context = append(board.Context, entries[lo:hi]...)
		}
		return board, nil
	}

	// The caller earned nothing this week; show them unranked with
	// their display name resolved from the account record.
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Warn("leaderboard requested by unknown user",
				slog.String("user_id", userID.String()))
			return nil, ErrUserNotFound
		}
		log.Error("failed to load user for leaderboard",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	board.CurrentUser = LeaderboardEntry{
		Rank:        0,
		UserID:      userID,
		DisplayName: user.DisplayName(),
		XP:          0,
		IsCurrent:   true,
	}
	return board, nil
}
