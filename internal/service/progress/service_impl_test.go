package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/store"
)

func TestKindSummary(t *testing.T) {
	ks := kindSummary(store.StageCounts{1: 4, 5: 2, 9: 3})

	assert.Equal(t, 6, ks.Learned)
	assert.Equal(t, 3, ks.Burned)
	assert.Equal(t, 4, ks.StageCounts[1])
	assert.Equal(t, 3, ks.StageCounts[9])
}

func TestKindSummaryEmpty(t *testing.T) {
	ks := kindSummary(store.StageCounts{})

	assert.Zero(t, ks.Learned)
	assert.Zero(t, ks.Burned)
	assert.NotNil(t, ks.StageCounts)
}

func TestGetSummary(t *testing.T) {
	userID := uuid.New()
	progressStore := new(store.MockProgressStore)
	svc := NewProgressService(progressStore, nil)

	now := time.Date(2025, time.March, 12, 12, 0, 0, 0, time.UTC)
	svc.(*progressServiceImpl).timeFunc = func() time.Time { return now }

	next := now.Add(3 * time.Hour)
	progressStore.On("CountByStage", mock.Anything, userID, domain.ItemKindCharacter).
		Return(store.StageCounts{2: 5, 9: 1}, nil)
	progressStore.On("CountByStage", mock.Anything, userID, domain.ItemKindWord).
		Return(store.StageCounts{1: 3}, nil)
	progressStore.On("CountDue", mock.Anything, userID, now).
		Return(map[domain.ItemKind]int{domain.ItemKindCharacter: 2, domain.ItemKindWord: 1}, nil)
	progressStore.On("Accuracy", mock.Anything, userID).
		Return(store.AccuracyTotals{Correct: 30, Incorrect: 10}, nil)
	progressStore.On("NextUpcomingReview", mock.Anything, userID, now).Return(&next, nil)

	summary, err := svc.GetSummary(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Characters.Learned)
	assert.Equal(t, 1, summary.Characters.Burned)
	assert.Equal(t, 3, summary.Words.Learned)
	assert.Equal(t, 2, summary.PendingCharacters)
	assert.Equal(t, 1, summary.PendingWords)
	assert.Equal(t, 40, summary.TotalAnswers)
	assert.InDelta(t, 75.0, summary.AccuracyPercent, 0.01)
	require.NotNil(t, summary.NextReviewAt)
	assert.Equal(t, next, *summary.NextReviewAt)
}

func TestGetSummaryNoActivity(t *testing.T) {
	userID := uuid.New()
	progressStore := new(store.MockProgressStore)
	svc := NewProgressService(progressStore, nil)

	progressStore.On("CountByStage", mock.Anything, userID, mock.Anything).
		Return(store.StageCounts{}, nil)
	progressStore.On("CountDue", mock.Anything, userID, mock.Anything).
		Return(map[domain.ItemKind]int{}, nil)
	progressStore.On("Accuracy", mock.Anything, userID).
		Return(store.AccuracyTotals{}, nil)
	progressStore.On("NextUpcomingReview", mock.Anything, userID, mock.Anything).
		Return(nil, nil)

	summary, err := svc.GetSummary(context.Background(), userID)
	require.NoError(t, err)

	assert.Zero(t, summary.TotalAnswers)
	assert.Zero(t, summary.AccuracyPercent)
	assert.Nil(t, summary.NextReviewAt)
}
