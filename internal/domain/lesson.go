package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Lesson.
var (
	ErrInvalidLessonLevel = errors.New("lesson level must be between 0 and 100")
	ErrEmptyLessonTitle   = errors.New("lesson title cannot be empty")
)

// MaxLessonLevel is the highest content level the platform ships.
const MaxLessonLevel = 100

// Lesson is a content level bundling a fixed set of character and word
// items. Level 0 is the introductory kana lesson. The lowest level is
// always unlocked; every other level unlocks once the preceding level
// is complete.
type Lesson struct {
	ID          uuid.UUID `json:"id"`
	Level       int       `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks if the Lesson has valid data.
func (l *Lesson) Validate() error {
	if l.Level < 0 || l.Level > MaxLessonLevel {
		return ErrInvalidLessonLevel
	}
	if l.Title == "" {
		return ErrEmptyLessonTitle
	}
	return nil
}
