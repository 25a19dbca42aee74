package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/api/shared"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/platform/logger"
	"github.com/toriigate/torii-api/internal/service/burn"
)

// BurnHandler handles burn-related HTTP requests
type BurnHandler struct {
	burnService burn.BurnService
	logger      *slog.Logger
}

// NewBurnHandler creates a new BurnHandler
func NewBurnHandler(burnService burn.BurnService, logger *slog.Logger) *BurnHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BurnHandler")
	}

	return &BurnHandler{
		burnService: burnService,
		logger:      logger.With(slog.String("component", "burn_handler")),
	}
}

// GetBurned handles GET /burned requests
// It lists the authenticated user's burned items.
func (h *BurnHandler) GetBurned(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	burned, err := h.burnService.GetBurned(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, burned)
}

// BurnRequest identifies the item to burn or restore.
type BurnRequest struct {
	ItemID string `json:"itemId" validate:"required,uuid"`
	Kind   string `json:"kind"   validate:"required,oneof=character word"`
}

// BurnItem handles POST /burned requests
// It retires the item from the user's review queue.
func (h *BurnHandler) BurnItem(w http.ResponseWriter, r *http.Request) {
	h.mutateBurnState(w, r, h.burnService.BurnItem)
}

// UnburnItem handles PATCH /burned requests
// It returns a burned item to the start of the schedule.
func (h *BurnHandler) UnburnItem(w http.ResponseWriter, r *http.Request) {
	h.mutateBurnState(w, r, h.burnService.UnburnItem)
}

// mutateBurnState shares the decode/validate/dispatch path of the two
// burn mutations.
func (h *BurnHandler) mutateBurnState(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, itemID uuid.UUID, kind domain.ItemKind) error,
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req BurnRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	if err := op(r.Context(), userID, itemID, domain.ItemKind(req.Kind)); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
