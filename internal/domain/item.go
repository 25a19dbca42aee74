package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ItemKind identifies which kind of learning item a record refers to.
type ItemKind string

// Possible item kinds.
const (
	ItemKindCharacter ItemKind = "character"
	ItemKindWord      ItemKind = "word"
)

// IsValid reports whether the kind is one of the known item kinds.
func (k ItemKind) IsValid() bool {
	return k == ItemKindCharacter || k == ItemKindWord
}

// Common validation errors for Item.
var (
	ErrInvalidItemKind  = errors.New("invalid item kind")
	ErrEmptyItemGlyph   = errors.New("item glyph cannot be empty")
	ErrEmptyItemLesson  = errors.New("item lesson ID cannot be empty")
	ErrNoItemMeanings   = errors.New("item must have at least one meaning")
)

// Item is a single learnable unit of content: a character or a word.
//
// Meanings holds every accepted meaning for grading. Readings holds the
// accepted readings in canonical kana: for characters the kun and on
// readings flattened into one list, for words the single dictionary
// reading.
type Item struct {
	ID             uuid.UUID `json:"id"`
	LessonID       uuid.UUID `json:"lesson_id"`
	Kind           ItemKind  `json:"kind"`
	Glyph          string    `json:"glyph"`
	PrimaryMeaning string    `json:"primary_meaning"`
	Meanings       []string  `json:"meanings"`
	Readings       []string  `json:"readings"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate checks if the Item has valid data.
// Returns an error if any field fails validation.
func (i *Item) Validate() error {
	if !i.Kind.IsValid() {
		return ErrInvalidItemKind
	}
	if i.Glyph == "" {
		return ErrEmptyItemGlyph
	}
	if i.LessonID == uuid.Nil {
		return ErrEmptyItemLesson
	}
	if len(i.Meanings) == 0 {
		return ErrNoItemMeanings
	}
	return nil
}
