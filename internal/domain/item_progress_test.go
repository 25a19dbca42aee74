package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProgress() *ItemProgress {
	now := time.Now()
	next := now.Add(4 * time.Hour)
	p := NewItemProgress(uuid.New(), uuid.New(), ItemKindCharacter, 1, now)
	p.NextReviewAt = &next
	return p
}

func TestNewItemProgress(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()
	now := time.Now()

	p := NewItemProgress(userID, itemID, ItemKindWord, 5, now)

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, itemID, p.ItemID)
	assert.Equal(t, ItemKindWord, p.ItemKind)
	assert.Equal(t, 5, p.Stage)
	assert.Equal(t, now, p.UnlockedAt)
	assert.Nil(t, p.NextReviewAt)
	assert.Nil(t, p.BurnedAt)
}

func TestItemProgressIsBurned(t *testing.T) {
	p := validProgress()
	assert.False(t, p.IsBurned())

	p.Stage = 9
	assert.True(t, p.IsBurned())
}

func TestItemProgressValidate(t *testing.T) {
	now := time.Now()

	t.Run("valid active record", func(t *testing.T) {
		require.NoError(t, validProgress().Validate())
	})

	t.Run("valid burned record", func(t *testing.T) {
		p := validProgress()
		p.Stage = 9
		p.NextReviewAt = nil
		p.BurnedAt = &now
		require.NoError(t, p.Validate())
	})

	t.Run("missing user", func(t *testing.T) {
		p := validProgress()
		p.UserID = uuid.Nil
		assert.ErrorIs(t, p.Validate(), ErrEmptyProgressUserID)
	})

	t.Run("missing item", func(t *testing.T) {
		p := validProgress()
		p.ItemID = uuid.Nil
		assert.ErrorIs(t, p.Validate(), ErrEmptyProgressItemID)
	})

	t.Run("bad kind", func(t *testing.T) {
		p := validProgress()
		p.ItemKind = ItemKind("kanji")
		assert.ErrorIs(t, p.Validate(), ErrInvalidItemKind)
	})

	t.Run("stage out of range", func(t *testing.T) {
		for _, stage := range []int{0, -1, 10} {
			p := validProgress()
			p.Stage = stage
			assert.ErrorIs(t, p.Validate(), ErrInvalidStage)
		}
	})

	t.Run("negative counter", func(t *testing.T) {
		p := validProgress()
		p.ReadingIncorrect = -1
		assert.ErrorIs(t, p.Validate(), ErrNegativeCounter)
	})

	t.Run("burned timestamp without burned stage", func(t *testing.T) {
		p := validProgress()
		p.BurnedAt = &now
		assert.ErrorIs(t, p.Validate(), ErrBurnedMismatch)
	})

	t.Run("burned stage without burned timestamp", func(t *testing.T) {
		p := validProgress()
		p.Stage = 9
		p.NextReviewAt = nil
		assert.ErrorIs(t, p.Validate(), ErrBurnedMismatch)
	})

	t.Run("burned stage with pending review", func(t *testing.T) {
		p := validProgress()
		p.Stage = 9
		p.BurnedAt = &now
		assert.ErrorIs(t, p.Validate(), ErrScheduleMismatch)
	})

	t.Run("active stage without schedule", func(t *testing.T) {
		p := validProgress()
		p.NextReviewAt = nil
		assert.ErrorIs(t, p.Validate(), ErrScheduleMismatch)
	})
}
