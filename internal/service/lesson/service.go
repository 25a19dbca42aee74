// Package lesson implements the lesson gate and the learn flow that
// seeds SRS progress for newly studied items.
package lesson

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
)

// Overview describes one level as the lesson picker shows it.
type Overview struct {
	Level           int     `json:"level"`
	JLPT            int     `json:"jlpt"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Characters      int     `json:"characters"`
	Words           int     `json:"words"`
	Started         int     `json:"started"`
	ProgressPercent float64 `json:"progressPercent"`
	Unlocked        bool    `json:"unlocked"`
	Complete        bool    `json:"complete"`
	Accessible      bool    `json:"accessible"`
}

// LearnItem is one item the user finished studying in a lesson.
// KnownAlready marks items the user answered correctly on the first
// attempt without help; those skip ahead in the schedule and earn
// nothing.
type LearnItem struct {
	ItemID       uuid.UUID       `json:"itemId"`
	Kind         domain.ItemKind `json:"kind"`
	KnownAlready bool            `json:"knownAlready"`
}

// LearnResult summarizes one learn call.
type LearnResult struct {
	Characters   int `json:"characters"`
	Words        int `json:"words"`
	SkippedAhead int `json:"skippedAhead"`
	XPAwarded    int `json:"xpAwarded"`
}

// LessonService provides the lesson operations for one user.
type LessonService interface {
	// GetLessons returns every level with the user's gate state.
	// Unlock state is recomputed from progress on every call.
	GetLessons(ctx context.Context, userID uuid.UUID) ([]Overview, error)

	// LearnItems seeds progress records for studied items and credits
	// lesson XP, atomically. Items from locked or inaccessible levels
	// are rejected before anything is written.
	LearnItems(ctx context.Context, userID uuid.UUID, items []LearnItem) (*LearnResult, error)
}

// Common error types for LessonService
var (
	// ErrItemNotFound indicates a referenced item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrLevelLocked indicates the item's level has not been unlocked
	// by completing the previous one.
	ErrLevelLocked = errors.New("level is locked")

	// ErrAccessDenied indicates the user's plan does not cover the
	// item's level.
	ErrAccessDenied = errors.New("access to level denied")

	// ErrNoItems indicates an empty learn request.
	ErrNoItems = errors.New("no items to learn")

	// ErrInvalidItemKind indicates an unknown item kind.
	ErrInvalidItemKind = errors.New("invalid item kind")
)
