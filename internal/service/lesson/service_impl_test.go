package lesson

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/service/access"
	"github.com/toriigate/torii-api/internal/service/xp"
	"github.com/toriigate/torii-api/internal/store"
)

var fixedNow = time.Date(2025, time.March, 12, 12, 0, 0, 0, time.UTC)

func testLesson(level int) *domain.Lesson {
	return &domain.Lesson{
		ID:    uuid.New(),
		Level: level,
		Title: "Level",
	}
}

func TestComputeGate(t *testing.T) {
	l1 := testLesson(1)
	l2 := testLesson(2)
	l3 := testLesson(3)
	lessons := []*domain.Lesson{l1, l2, l3}

	counts := map[uuid.UUID]store.ItemCounts{
		l1.ID: {Characters: 2, Words: 1},
		l2.ID: {Characters: 1, Words: 1},
		l3.ID: {Characters: 3},
	}

	t.Run("only first level unlocked initially", func(t *testing.T) {
		gate := computeGate(lessons, counts, map[uuid.UUID]int{})

		assert.True(t, gate[1].unlocked)
		assert.False(t, gate[1].complete)
		assert.False(t, gate[2].unlocked)
		assert.False(t, gate[3].unlocked)
	})

	t.Run("completing a level unlocks the next", func(t *testing.T) {
		gate := computeGate(lessons, counts, map[uuid.UUID]int{l1.ID: 3})

		assert.True(t, gate[1].complete)
		assert.True(t, gate[2].unlocked)
		assert.False(t, gate[2].complete)
		assert.False(t, gate[3].unlocked)
	})

	t.Run("partial progress does not unlock", func(t *testing.T) {
		gate := computeGate(lessons, counts, map[uuid.UUID]int{l1.ID: 2})

		assert.False(t, gate[1].complete)
		assert.False(t, gate[2].unlocked)
	})

	t.Run("an incomplete level blocks everything above it", func(t *testing.T) {
		gate := computeGate(lessons, counts, map[uuid.UUID]int{l1.ID: 3, l3.ID: 3})

		assert.True(t, gate[2].unlocked)
		assert.True(t, gate[3].complete)
		assert.False(t, gate[3].unlocked)
	})

	t.Run("empty level is never complete", func(t *testing.T) {
		empty := testLesson(1)
		gate := computeGate([]*domain.Lesson{empty}, map[uuid.UUID]store.ItemCounts{}, map[uuid.UUID]int{})

		assert.True(t, gate[1].unlocked)
		assert.False(t, gate[1].complete)
	})
}

type lessonFixture struct {
	svc           LessonService
	dbMock        sqlmock.Sqlmock
	progressStore *store.MockProgressStore
	contentStore  *store.MockContentStore
	xpStore       *store.MockWeeklyXPStore
}

func newLessonFixture(t *testing.T, decider access.Decider) *lessonFixture {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	progressStore := new(store.MockProgressStore)
	contentStore := new(store.MockContentStore)
	xpStore := new(store.MockWeeklyXPStore)

	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	svc := NewLessonService(db, progressStore, contentStore, xpStore, xp.NewLedger(loc), decider, nil)
	svc.(*lessonServiceImpl).timeFunc = func() time.Time { return fixedNow }

	return &lessonFixture{
		svc:           svc,
		dbMock:        dbMock,
		progressStore: progressStore,
		contentStore:  contentStore,
		xpStore:       xpStore,
	}
}

// seedContent registers a one-lesson catalog holding the given item.
func seedContent(f *lessonFixture, userID uuid.UUID, lesson *domain.Lesson, item *domain.Item, startedInLesson int) {
	f.contentStore.On("ListLessons", mock.Anything).Return([]*domain.Lesson{lesson}, nil)
	f.contentStore.On("ItemCountsByLesson", mock.Anything).Return(map[uuid.UUID]store.ItemCounts{
		lesson.ID: {Characters: 3},
	}, nil)
	f.progressStore.On("StartedCountByLesson", mock.Anything, userID).Return(map[uuid.UUID]int{
		lesson.ID: startedInLesson,
	}, nil)
	f.contentStore.On("GetItem", mock.Anything, item.ID, item.Kind).Return(item, nil)
	f.contentStore.On("GetItemLevel", mock.Anything, item.ID, item.Kind).Return(lesson.Level, nil)
}

func TestLearnItemsNewCharacter(t *testing.T) {
	userID := uuid.New()
	f := newLessonFixture(t, nil)

	lesson := testLesson(1)
	item := &domain.Item{
		ID:             uuid.New(),
		LessonID:       lesson.ID,
		Kind:           domain.ItemKindCharacter,
		Glyph:          "水",
		PrimaryMeaning: "water",
		Readings:       []string{"みず"},
	}
	seedContent(f, userID, lesson, item, 0)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()
	var createdProgress *domain.ItemProgress
	f.progressStore.On("CreateIfAbsent", mock.Anything, mock.AnythingOfType("*domain.ItemProgress")).
		Run(func(args mock.Arguments) {
			createdProgress = args.Get(1).(*domain.ItemProgress)
		}).
		Return(true, nil)
	// Meaning and reading questions at 10 XP apiece.
	f.xpStore.On("AddXP", mock.Anything, userID, mock.Anything, mock.Anything, 20).Return(nil)

	result, err := f.svc.LearnItems(context.Background(), userID, []LearnItem{
		{ItemID: item.ID, Kind: domain.ItemKindCharacter},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Characters)
	assert.Equal(t, 0, result.Words)
	assert.Equal(t, 0, result.SkippedAhead)
	assert.Equal(t, 20, result.XPAwarded)

	require.NotNil(t, createdProgress)
	assert.Equal(t, 1, createdProgress.Stage)
	assert.Equal(t, 0, createdProgress.MeaningCorrect)
	require.NotNil(t, createdProgress.NextReviewAt)
	assert.Equal(t, fixedNow.Add(4*time.Hour), *createdProgress.NextReviewAt)

	require.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestLearnItemsKanaOnlyWordAsksOneQuestion(t *testing.T) {
	userID := uuid.New()
	f := newLessonFixture(t, nil)

	lesson := testLesson(1)
	item := &domain.Item{
		ID:             uuid.New(),
		LessonID:       lesson.ID,
		Kind:           domain.ItemKindWord,
		Glyph:          "こんにちは",
		PrimaryMeaning: "hello",
		Readings:       []string{"こんにちは"},
	}
	seedContent(f, userID, lesson, item, 0)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()
	f.progressStore.On("CreateIfAbsent", mock.Anything, mock.AnythingOfType("*domain.ItemProgress")).Return(true, nil)
	f.xpStore.On("AddXP", mock.Anything, userID, mock.Anything, mock.Anything, xp.PerLessonQuestion).Return(nil)

	result, err := f.svc.LearnItems(context.Background(), userID, []LearnItem{
		{ItemID: item.ID, Kind: domain.ItemKindWord},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Words)
	assert.Equal(t, xp.PerLessonQuestion, result.XPAwarded)
	require.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestLearnItemsKnownAlready(t *testing.T) {
	userID := uuid.New()
	f := newLessonFixture(t, nil)

	lesson := testLesson(1)
	item := &domain.Item{
		ID:             uuid.New(),
		LessonID:       lesson.ID,
		Kind:           domain.ItemKindCharacter,
		Glyph:          "水",
		PrimaryMeaning: "water",
		Readings:       []string{"みず"},
	}
	seedContent(f, userID, lesson, item, 0)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()
	var createdProgress *domain.ItemProgress
	f.progressStore.On("CreateIfAbsent", mock.Anything, mock.AnythingOfType("*domain.ItemProgress")).
		Run(func(args mock.Arguments) {
			createdProgress = args.Get(1).(*domain.ItemProgress)
		}).
		Return(true, nil)

	result, err := f.svc.LearnItems(context.Background(), userID, []LearnItem{
		{ItemID: item.ID, Kind: domain.ItemKindCharacter, KnownAlready: true},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.SkippedAhead)
	assert.Equal(t, 0, result.XPAwarded)
	f.xpStore.AssertNotCalled(t, "AddXP")

	require.NotNil(t, createdProgress)
	assert.Equal(t, 5, createdProgress.Stage)
	assert.Equal(t, 1, createdProgress.MeaningCorrect)
	assert.Equal(t, 1, createdProgress.ReadingCorrect)
	require.NotNil(t, createdProgress.NextReviewAt)
	assert.Equal(t, fixedNow.Add(7*24*time.Hour), *createdProgress.NextReviewAt)

	require.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestLearnItemsRestudyRecordsReview(t *testing.T) {
	userID := uuid.New()
	f := newLessonFixture(t, nil)

	lesson := testLesson(1)
	item := &domain.Item{
		ID:             uuid.New(),
		LessonID:       lesson.ID,
		Kind:           domain.ItemKindCharacter,
		Glyph:          "水",
		PrimaryMeaning: "water",
		Readings:       []string{"みず"},
	}
	seedContent(f, userID, lesson, item, 1)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()
	f.progressStore.On("CreateIfAbsent", mock.Anything, mock.AnythingOfType("*domain.ItemProgress")).Return(false, nil)
	f.progressStore.On("RecordLessonReview", mock.Anything, userID, item.ID, domain.ItemKindCharacter, true, fixedNow).Return(nil)
	f.xpStore.On("AddXP", mock.Anything, userID, mock.Anything, mock.Anything, 20).Return(nil)

	result, err := f.svc.LearnItems(context.Background(), userID, []LearnItem{
		{ItemID: item.ID, Kind: domain.ItemKindCharacter},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Characters)
	assert.Equal(t, 20, result.XPAwarded)
	f.progressStore.AssertExpectations(t)
	require.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestLearnItemsLockedLevel(t *testing.T) {
	userID := uuid.New()
	f := newLessonFixture(t, nil)

	l1 := testLesson(1)
	l2 := testLesson(2)
	item := &domain.Item{
		ID:             uuid.New(),
		LessonID:       l2.ID,
		Kind:           domain.ItemKindCharacter,
		Glyph:          "火",
		PrimaryMeaning: "fire",
		Readings:       []string{"ひ"},
	}

	f.contentStore.On("ListLessons", mock.Anything).Return([]*domain.Lesson{l1, l2}, nil)
	f.contentStore.On("ItemCountsByLesson", mock.Anything).Return(map[uuid.UUID]store.ItemCounts{
		l1.ID: {Characters: 3},
		l2.ID: {Characters: 3},
	}, nil)
	f.progressStore.On("StartedCountByLesson", mock.Anything, userID).Return(map[uuid.UUID]int{}, nil)
	f.contentStore.On("GetItem", mock.Anything, item.ID, item.Kind).Return(item, nil)
	f.contentStore.On("GetItemLevel", mock.Anything, item.ID, item.Kind).Return(2, nil)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectRollback()

	_, err := f.svc.LearnItems(context.Background(), userID, []LearnItem{
		{ItemID: item.ID, Kind: domain.ItemKindCharacter},
	})
	assert.ErrorIs(t, err, ErrLevelLocked)

	f.progressStore.AssertNotCalled(t, "CreateIfAbsent")
	require.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestLearnItemsAccessDenied(t *testing.T) {
	userID := uuid.New()
	f := newLessonFixture(t, access.LevelCap{MaxLevel: 0})

	lesson := testLesson(1)
	item := &domain.Item{
		ID:             uuid.New(),
		LessonID:       lesson.ID,
		Kind:           domain.ItemKindCharacter,
		Glyph:          "水",
		PrimaryMeaning: "water",
		Readings:       []string{"みず"},
	}
	seedContent(f, userID, lesson, item, 0)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectRollback()

	_, err := f.svc.LearnItems(context.Background(), userID, []LearnItem{
		{ItemID: item.ID, Kind: domain.ItemKindCharacter},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	require.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestLearnItemsValidation(t *testing.T) {
	userID := uuid.New()
	f := newLessonFixture(t, nil)

	_, err := f.svc.LearnItems(context.Background(), userID, nil)
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = f.svc.LearnItems(context.Background(), userID, []LearnItem{
		{ItemID: uuid.New(), Kind: domain.ItemKind("kanji")},
	})
	assert.ErrorIs(t, err, ErrInvalidItemKind)
}

func TestGetLessons(t *testing.T) {
	userID := uuid.New()
	f := newLessonFixture(t, nil)

	l1 := testLesson(1)
	l2 := testLesson(2)
	f.contentStore.On("ListLessons", mock.Anything).Return([]*domain.Lesson{l1, l2}, nil)
	f.contentStore.On("ItemCountsByLesson", mock.Anything).Return(map[uuid.UUID]store.ItemCounts{
		l1.ID: {Characters: 2, Words: 2},
		l2.ID: {Characters: 1, Words: 3},
	}, nil)
	f.progressStore.On("StartedCountByLesson", mock.Anything, userID).Return(map[uuid.UUID]int{
		l1.ID: 4,
		l2.ID: 1,
	}, nil)

	overviews, err := f.svc.GetLessons(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, overviews, 2)

	assert.Equal(t, 1, overviews[0].Level)
	assert.Equal(t, 5, overviews[0].JLPT)
	assert.True(t, overviews[0].Unlocked)
	assert.True(t, overviews[0].Complete)
	assert.InDelta(t, 100.0, overviews[0].ProgressPercent, 0.01)
	assert.True(t, overviews[0].Accessible)

	assert.Equal(t, 2, overviews[1].Level)
	assert.True(t, overviews[1].Unlocked)
	assert.False(t, overviews[1].Complete)
	assert.InDelta(t, 25.0, overviews[1].ProgressPercent, 0.01)
}
