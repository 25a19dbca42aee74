package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/api/shared"
	"github.com/toriigate/torii-api/internal/platform/logger"
	"github.com/toriigate/torii-api/internal/service/xp"
)

// LeaderboardHandler handles leaderboard HTTP requests
type LeaderboardHandler struct {
	xpService xp.Service
	logger    *slog.Logger
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(xpService xp.Service, logger *slog.Logger) *LeaderboardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LeaderboardHandler")
	}

	return &LeaderboardHandler{
		xpService: xpService,
		logger:    logger.With(slog.String("component", "leaderboard_handler")),
	}
}

// GetLeaderboard handles GET /leaderboard requests
// It returns the current week's standings from the caller's perspective.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	board, err := h.xpService.GetLeaderboard(r.Context(), userID, time.Now())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, board)
}
