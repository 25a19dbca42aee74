package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/api/shared"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/platform/logger"
	"github.com/toriigate/torii-api/internal/service/review"
)

// ReviewHandler handles review-related HTTP requests
type ReviewHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService review.ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// GetDueReviews handles GET /reviews requests
// It expands the authenticated user's due items into a question list.
func (h *ReviewHandler) GetDueReviews(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	due, err := h.reviewService.GetDueReviews(r.Context(), userID, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, due)
}

// SubmitAnswerRequest represents the request body for submitting a review answer
type SubmitAnswerRequest struct {
	ProgressID   string `json:"progressId"   validate:"required,uuid"`
	QuestionType string `json:"questionType" validate:"required,oneof=meaning reading"`
	Correct      bool   `json:"correct"`
	UsedHint     bool   `json:"usedHint"`
}

// SubmitAnswer handles POST /reviews requests
// It applies one graded sub-question answer to the user's schedule.
func (h *ReviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	progressID, err := uuid.Parse(req.ProgressID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid progress ID format")
		return
	}

	result, err := h.reviewService.SubmitAnswer(r.Context(), userID, review.AnswerSubmission{
		ProgressID:   progressID,
		QuestionType: review.QuestionType(req.QuestionType),
		Correct:      req.Correct,
		UsedHint:     req.UsedHint,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GradeAnswerRequest represents the request body for grading an answer
type GradeAnswerRequest struct {
	ItemID       string `json:"itemId"       validate:"required,uuid"`
	Kind         string `json:"kind"         validate:"required,oneof=character word"`
	QuestionType string `json:"questionType" validate:"required,oneof=meaning reading"`
	Answer       string `json:"answer"       validate:"required"`
}

// GradeAnswerResponse reports whether the answer was accepted.
type GradeAnswerResponse struct {
	Correct bool `json:"correct"`
}

// GradeAnswer handles POST /reviews/grade requests
// It grades an answer against an item without touching any state.
func (h *ReviewHandler) GradeAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req GradeAnswerRequest
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

	correct, err := h.reviewService.GradeAnswer(
		r.Context(),
		itemID,
		domain.ItemKind(req.Kind),
		review.QuestionType(req.QuestionType),
		req.Answer,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GradeAnswerResponse{Correct: correct})
}
