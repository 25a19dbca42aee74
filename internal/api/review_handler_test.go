package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/toriigate/torii-api/internal/api/shared"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/service/review"
)

// mockReviewService mocks review.ReviewService for handler tests.
type mockReviewService struct {
	mock.Mock
}

var _ review.ReviewService = (*mockReviewService)(nil)

func (m *mockReviewService) GetDueReviews(ctx context.Context, userID uuid.UUID, limit int) (*review.DueReviews, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.DueReviews), args.Error(1)
}

func (m *mockReviewService) SubmitAnswer(ctx context.Context, userID uuid.UUID, sub review.AnswerSubmission) (*review.AnswerResult, error) {
	args := m.Called(ctx, userID, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.AnswerResult), args.Error(1)
}

func (m *mockReviewService) GradeAnswer(ctx context.Context, itemID uuid.UUID, kind domain.ItemKind, questionType review.QuestionType, answer string) (bool, error) {
	args := m.Called(ctx, itemID, kind, questionType, answer)
	return args.Bool(0), args.Error(1)
}

func authedRequest(t *testing.T, method, target string, body any, userID uuid.UUID) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		req = req.WithContext(context.WithValue(req.Context(), shared.UserIDContextKey, userID))
	}
	return req
}

func TestGetDueReviewsHandler(t *testing.T) {
	svc := new(mockReviewService)
	handler := NewReviewHandler(svc, slog.Default())
	userID := uuid.New()

	svc.On("GetDueReviews", mock.Anything, userID, 0).Return(&review.DueReviews{
		Questions:         []review.Question{},
		PendingCharacters: 4,
		PendingWords:      2,
	}, nil)

	rec := httptest.NewRecorder()
	handler.GetDueReviews(rec, authedRequest(t, http.MethodGet, "/api/reviews", nil, userID))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp review.DueReviews
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.PendingCharacters)
	assert.Equal(t, 2, resp.PendingWords)
}

func TestGetDueReviewsHandlerLimit(t *testing.T) {
	svc := new(mockReviewService)
	handler := NewReviewHandler(svc, slog.Default())
	userID := uuid.New()

	svc.On("GetDueReviews", mock.Anything, userID, 25).Return(&review.DueReviews{Questions: []review.Question{}}, nil)

	rec := httptest.NewRecorder()
	handler.GetDueReviews(rec, authedRequest(t, http.MethodGet, "/api/reviews?limit=25", nil, userID))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.GetDueReviews(rec, authedRequest(t, http.MethodGet, "/api/reviews?limit=abc", nil, userID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDueReviewsHandlerUnauthenticated(t *testing.T) {
	svc := new(mockReviewService)
	handler := NewReviewHandler(svc, slog.Default())

	rec := httptest.NewRecorder()
	handler.GetDueReviews(rec, authedRequest(t, http.MethodGet, "/api/reviews", nil, uuid.Nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "GetDueReviews")
}

func TestSubmitAnswerHandler(t *testing.T) {
	svc := new(mockReviewService)
	handler := NewReviewHandler(svc, slog.Default())
	userID := uuid.New()
	progressID := uuid.New()

	svc.On("SubmitAnswer", mock.Anything, userID, review.AnswerSubmission{
		ProgressID:   progressID,
		QuestionType: review.QuestionMeaning,
		Correct:      true,
	}).Return(&review.AnswerResult{
		PreviousStage: 2,
		NewStage:      3,
		StageName:     "Apprentice 3",
		XPAwarded:     10,
	}, nil)

	body := SubmitAnswerRequest{
		ProgressID:   progressID.String(),
		QuestionType: "meaning",
		Correct:      true,
	}
	rec := httptest.NewRecorder()
	handler.SubmitAnswer(rec, authedRequest(t, http.MethodPost, "/api/reviews", body, userID))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp review.AnswerResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.NewStage)
	assert.Equal(t, 10, resp.XPAwarded)
}

func TestSubmitAnswerHandlerValidation(t *testing.T) {
	svc := new(mockReviewService)
	handler := NewReviewHandler(svc, slog.Default())
	userID := uuid.New()

	testCases := []struct {
		name string
		body SubmitAnswerRequest
	}{
		{
			name: "missing progress id",
			body: SubmitAnswerRequest{QuestionType: "meaning"},
		},
		{
			name: "malformed progress id",
			body: SubmitAnswerRequest{ProgressID: "not-a-uuid", QuestionType: "meaning"},
		},
		{
			name: "unknown question type",
			body: SubmitAnswerRequest{ProgressID: uuid.New().String(), QuestionType: "recall"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.SubmitAnswer(rec, authedRequest(t, http.MethodPost, "/api/reviews", tc.body, userID))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	svc.AssertNotCalled(t, "SubmitAnswer")
}

func TestSubmitAnswerHandlerServiceErrors(t *testing.T) {
	userID := uuid.New()

	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: review.ErrReviewNotFound, want: http.StatusNotFound},
		{name: "already burned", err: review.ErrAlreadyBurned, want: http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockReviewService)
			handler := NewReviewHandler(svc, slog.Default())
			svc.On("SubmitAnswer", mock.Anything, userID, mock.Anything).Return(nil, tc.err)

			body := SubmitAnswerRequest{
				ProgressID:   uuid.New().String(),
				QuestionType: "meaning",
				Correct:      true,
			}
			rec := httptest.NewRecorder()
			handler.SubmitAnswer(rec, authedRequest(t, http.MethodPost, "/api/reviews", body, userID))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestGradeAnswerHandler(t *testing.T) {
	svc := new(mockReviewService)
	handler := NewReviewHandler(svc, slog.Default())
	userID := uuid.New()
	itemID := uuid.New()

	svc.On("GradeAnswer", mock.Anything, itemID, domain.ItemKindCharacter, review.QuestionReading, "mizu").
		Return(true, nil)

	body := GradeAnswerRequest{
		ItemID:       itemID.String(),
		Kind:         "character",
		QuestionType: "reading",
		Answer:       "mizu",
	}
	rec := httptest.NewRecorder()
	handler.GradeAnswer(rec, authedRequest(t, http.MethodPost, "/api/reviews/grade", body, userID))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp GradeAnswerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Correct)
}

func TestGradeAnswerHandlerBadJSON(t *testing.T) {
	svc := new(mockReviewService)
	handler := NewReviewHandler(svc, slog.Default())
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/reviews/grade", bytes.NewBufferString("{not json"))
	req = req.WithContext(context.WithValue(req.Context(), shared.UserIDContextKey, userID))

	rec := httptest.NewRecorder()
	handler.GradeAnswer(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
