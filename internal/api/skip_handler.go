package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/api/shared"
	"github.com/toriigate/torii-api/internal/platform/logger"
	"github.com/toriigate/torii-api/internal/service/access"
	"github.com/toriigate/torii-api/internal/service/burn"
)

// SkipHandler handles skip-ahead HTTP requests
type SkipHandler struct {
	burnService burn.BurnService
	logger      *slog.Logger
}

// NewSkipHandler creates a new SkipHandler
func NewSkipHandler(burnService burn.BurnService, logger *slog.Logger) *SkipHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SkipHandler")
	}

	return &SkipHandler{
		burnService: burnService,
		logger:      logger.With(slog.String("component", "skip_handler")),
	}
}

// SkipJLPTRequest names the JLPT tier the learner wants to start at.
type SkipJLPTRequest struct {
	Target int `json:"target" validate:"required"`
}

// SkipJLPT handles POST /lessons/skip-jlpt requests
// It retires all content below the first level of the target tier.
func (h *SkipHandler) SkipJLPT(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req SkipJLPTRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	startLevel, ok := access.JLPTStartLevel(req.Target)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid JLPT target")
		return
	}

	result, err := h.burnService.SkipToLevel(r.Context(), userID, startLevel)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// SkipLesson handles POST /lessons/{lessonID}/skip requests
// It retires the introductory kana lesson for learners who already read
// kana.
func (h *SkipHandler) SkipLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	lessonID, err := uuid.Parse(chi.URLParam(r, "lessonID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid lesson ID format")
		return
	}

	result, err := h.burnService.SkipLesson(r.Context(), userID, lessonID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
