package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/api/shared"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/platform/logger"
	"github.com/toriigate/torii-api/internal/service/lesson"
)

// LessonHandler handles lesson-related HTTP requests
type LessonHandler struct {
	lessonService lesson.LessonService
	logger        *slog.Logger
}

// NewLessonHandler creates a new LessonHandler
func NewLessonHandler(lessonService lesson.LessonService, logger *slog.Logger) *LessonHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LessonHandler")
	}

	return &LessonHandler{
		lessonService: lessonService,
		logger:        logger.With(slog.String("component", "lesson_handler")),
	}
}

// LessonsResponse wraps the per-level overviews.
type LessonsResponse struct {
	Lessons []lesson.Overview `json:"lessons"`
}

// GetLessons handles GET /lessons requests
// It returns every level with the user's unlock and completion state.
func (h *LessonHandler) GetLessons(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	overviews, err := h.lessonService.GetLessons(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LessonsResponse{Lessons: overviews})
}

// LearnRequestItem is one studied item in a learn request.
type LearnRequestItem struct {
	ItemID       string `json:"itemId"       validate:"required,uuid"`
	Kind         string `json:"kind"         validate:"required,oneof=character word"`
	KnownAlready bool   `json:"knownAlready"`
}

// LearnRequest represents the request body for finishing a lesson
type LearnRequest struct {
	Items []LearnRequestItem `json:"items" validate:"required,min=1,max=100,dive"`
}

// LearnItems handles POST /lessons/learn requests
// It seeds progress for the studied items and credits lesson XP.
func (h *LessonHandler) LearnItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req LearnRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	items := make([]lesson.LearnItem, 0, len(req.Items))
	for _, ri := range req.Items {
		itemID, err := uuid.Parse(ri.ItemID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID format")
			return
		}
		items = append(items, lesson.LearnItem{
			ItemID:       itemID,
			Kind:         domain.ItemKind(ri.Kind),
			KnownAlready: ri.KnownAlready,
		})
	}

	result, err := h.lessonService.LearnItems(r.Context(), userID, items)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
