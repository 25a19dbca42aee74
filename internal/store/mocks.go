package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/toriigate/torii-api/internal/domain"
)

// Mock store implementations for use in service and handler tests.

// MockProgressStore mocks the ProgressStore interface.
type MockProgressStore struct {
	mock.Mock
}

var _ ProgressStore = (*MockProgressStore)(nil)

func (m *MockProgressStore) Get(
	ctx context.Context,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
) (*domain.ItemProgress, error) {
	args := m.Called(ctx, userID, itemID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemProgress), args.Error(1)
}

func (m *MockProgressStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ItemProgress, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemProgress), args.Error(1)
}

func (m *MockProgressStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.ItemProgress, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemProgress), args.Error(1)
}

func (m *MockProgressStore) CreateIfAbsent(ctx context.Context, progress *domain.ItemProgress) (bool, error) {
	args := m.Called(ctx, progress)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressStore) Update(ctx context.Context, progress *domain.ItemProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressStore) Burn(
	ctx context.Context,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
	now time.Time,
) error {
	args := m.Called(ctx, userID, itemID, kind, now)
	return args.Error(0)
}

func (m *MockProgressStore) Unburn(
	ctx context.Context,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
	nextReviewAt time.Time,
) error {
	args := m.Called(ctx, userID, itemID, kind, nextReviewAt)
	return args.Error(0)
}

func (m *MockProgressStore) RecordLessonReview(
	ctx context.Context,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
	withReading bool,
	now time.Time,
) error {
	args := m.Called(ctx, userID, itemID, kind, withReading, now)
	return args.Error(0)
}

func (m *MockProgressStore) FindDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]DueReview, error) {
	args := m.Called(ctx, userID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DueReview), args.Error(1)
}

func (m *MockProgressStore) CountDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (map[domain.ItemKind]int, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ItemKind]int), args.Error(1)
}

func (m *MockProgressStore) CountDueByLevel(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]DueCount, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DueCount), args.Error(1)
}

func (m *MockProgressStore) StartedCountByLesson(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int), args.Error(1)
}

func (m *MockProgressStore) FindBurned(ctx context.Context, userID uuid.UUID) ([]DueReview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DueReview), args.Error(1)
}

func (m *MockProgressStore) CountByStage(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
) (StageCounts, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(StageCounts), args.Error(1)
}

func (m *MockProgressStore) Accuracy(ctx context.Context, userID uuid.UUID) (AccuracyTotals, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(AccuracyTotals), args.Error(1)
}

func (m *MockProgressStore) NextUpcomingReview(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (*time.Time, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockProgressStore) WithTx(tx *sql.Tx) ProgressStore {
	return m
}

// MockContentStore mocks the ContentStore interface.
type MockContentStore struct {
	mock.Mock
}

var _ ContentStore = (*MockContentStore)(nil)

func (m *MockContentStore) ListLessons(ctx context.Context) ([]*domain.Lesson, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Lesson), args.Error(1)
}

func (m *MockContentStore) GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *MockContentStore) GetLessonByLevel(ctx context.Context, level int) (*domain.Lesson, error) {
	args := m.Called(ctx, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *MockContentStore) GetItem(
	ctx context.Context,
	itemID uuid.UUID,
	kind domain.ItemKind,
) (*domain.Item, error) {
	args := m.Called(ctx, itemID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockContentStore) GetItemLevel(
	ctx context.Context,
	itemID uuid.UUID,
	kind domain.ItemKind,
) (int, error) {
	args := m.Called(ctx, itemID, kind)
	return args.Int(0), args.Error(1)
}

func (m *MockContentStore) ItemCountsByLesson(ctx context.Context) (map[uuid.UUID]ItemCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]ItemCounts), args.Error(1)
}

func (m *MockContentStore) ItemKeysByLesson(ctx context.Context, lessonID uuid.UUID) ([]ItemKey, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ItemKey), args.Error(1)
}

func (m *MockContentStore) ItemKeysBelowLevel(ctx context.Context, level int) ([]ItemKey, error) {
	args := m.Called(ctx, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ItemKey), args.Error(1)
}

func (m *MockContentStore) WithTx(tx *sql.Tx) ContentStore {
	return m
}

// MockWeeklyXPStore mocks the WeeklyXPStore interface.
type MockWeeklyXPStore struct {
	mock.Mock
}

var _ WeeklyXPStore = (*MockWeeklyXPStore)(nil)

func (m *MockWeeklyXPStore) AddXP(
	ctx context.Context,
	userID uuid.UUID,
	weekStart, weekEnd time.Time,
	amount int,
) error {
	args := m.Called(ctx, userID, weekStart, weekEnd, amount)
	return args.Error(0)
}

func (m *MockWeeklyXPStore) GetWeek(
	ctx context.Context,
	userID uuid.UUID,
	weekStart time.Time,
) (*domain.WeeklyXP, error) {
	args := m.Called(ctx, userID, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeeklyXP), args.Error(1)
}

func (m *MockWeeklyXPStore) ListWeek(ctx context.Context, weekStart time.Time) ([]WeeklyStanding, error) {
	args := m.Called(ctx, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WeeklyStanding), args.Error(1)
}

func (m *MockWeeklyXPStore) WithTx(tx *sql.Tx) WeeklyXPStore {
	return m
}

// MockUserStore mocks the UserStore interface.
type MockUserStore struct {
	mock.Mock
}

var _ UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) UserStore {
	return m
}
