package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/service/burn"
)

// mockBurnService mocks burn.BurnService for handler tests.
type mockBurnService struct {
	mock.Mock
}

var _ burn.BurnService = (*mockBurnService)(nil)

func (m *mockBurnService) BurnItem(ctx context.Context, userID, itemID uuid.UUID, kind domain.ItemKind) error {
	args := m.Called(ctx, userID, itemID, kind)
	return args.Error(0)
}

func (m *mockBurnService) UnburnItem(ctx context.Context, userID, itemID uuid.UUID, kind domain.ItemKind) error {
	args := m.Called(ctx, userID, itemID, kind)
	return args.Error(0)
}

func (m *mockBurnService) GetBurned(ctx context.Context, userID uuid.UUID) (*burn.BurnedItems, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*burn.BurnedItems), args.Error(1)
}

func (m *mockBurnService) SkipToLevel(ctx context.Context, userID uuid.UUID, startLevel int) (*burn.SkipResult, error) {
	args := m.Called(ctx, userID, startLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*burn.SkipResult), args.Error(1)
}

func (m *mockBurnService) SkipLesson(ctx context.Context, userID, lessonID uuid.UUID) (*burn.SkipResult, error) {
	args := m.Called(ctx, userID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*burn.SkipResult), args.Error(1)
}

// withLessonParam attaches a chi route parameter to the request.
func withLessonParam(req *http.Request, lessonID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("lessonID", lessonID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSkipJLPTHandler(t *testing.T) {
	svc := new(mockBurnService)
	handler := NewSkipHandler(svc, slog.Default())
	userID := uuid.New()

	// N3 starts at level 26.
	svc.On("SkipToLevel", mock.Anything, userID, 26).
		Return(&burn.SkipResult{Characters: 40, Words: 120}, nil)

	rec := httptest.NewRecorder()
	handler.SkipJLPT(rec, authedRequest(t, http.MethodPost, "/api/lessons/skip-jlpt", map[string]any{"target": 3}, userID))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp burn.SkipResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 40, resp.Characters)
	assert.Equal(t, 120, resp.Words)
}

func TestSkipJLPTHandlerInvalidTarget(t *testing.T) {
	svc := new(mockBurnService)
	handler := NewSkipHandler(svc, slog.Default())
	userID := uuid.New()

	for _, target := range []any{0, 6, "N3"} {
		rec := httptest.NewRecorder()
		handler.SkipJLPT(rec, authedRequest(t, http.MethodPost, "/api/lessons/skip-jlpt", map[string]any{"target": target}, userID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	svc.AssertNotCalled(t, "SkipToLevel")
}

func TestSkipJLPTHandlerAccessDenied(t *testing.T) {
	svc := new(mockBurnService)
	handler := NewSkipHandler(svc, slog.Default())
	userID := uuid.New()

	svc.On("SkipToLevel", mock.Anything, userID, 76).Return(nil, burn.ErrAccessDenied)

	rec := httptest.NewRecorder()
	handler.SkipJLPT(rec, authedRequest(t, http.MethodPost, "/api/lessons/skip-jlpt", map[string]any{"target": 1}, userID))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSkipJLPTHandlerUnauthenticated(t *testing.T) {
	svc := new(mockBurnService)
	handler := NewSkipHandler(svc, slog.Default())

	rec := httptest.NewRecorder()
	handler.SkipJLPT(rec, authedRequest(t, http.MethodPost, "/api/lessons/skip-jlpt", map[string]any{"target": 3}, uuid.Nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "SkipToLevel")
}

func TestSkipLessonHandler(t *testing.T) {
	svc := new(mockBurnService)
	handler := NewSkipHandler(svc, slog.Default())
	userID := uuid.New()
	lessonID := uuid.New()

	svc.On("SkipLesson", mock.Anything, userID, lessonID).
		Return(&burn.SkipResult{Characters: 92}, nil)

	req := withLessonParam(authedRequest(t, http.MethodPost, "/api/lessons/"+lessonID.String()+"/skip", nil, userID), lessonID.String())
	rec := httptest.NewRecorder()
	handler.SkipLesson(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp burn.SkipResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 92, resp.Characters)
}

func TestSkipLessonHandlerErrors(t *testing.T) {
	userID := uuid.New()
	lessonID := uuid.New()

	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "unknown lesson", err: burn.ErrLessonNotFound, want: http.StatusNotFound},
		{name: "not the kana lesson", err: burn.ErrLessonNotSkippable, want: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockBurnService)
			handler := NewSkipHandler(svc, slog.Default())
			svc.On("SkipLesson", mock.Anything, userID, lessonID).Return(nil, tc.err)

			req := withLessonParam(authedRequest(t, http.MethodPost, "/api/lessons/"+lessonID.String()+"/skip", nil, userID), lessonID.String())
			rec := httptest.NewRecorder()
			handler.SkipLesson(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestSkipLessonHandlerBadID(t *testing.T) {
	svc := new(mockBurnService)
	handler := NewSkipHandler(svc, slog.Default())
	userID := uuid.New()

	req := withLessonParam(authedRequest(t, http.MethodPost, "/api/lessons/nope/skip", nil, userID), "nope")
	rec := httptest.NewRecorder()
	handler.SkipLesson(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "SkipLesson")
}
