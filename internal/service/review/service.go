// Package review implements the review flow: expanding due items into
// questions, grading answers, and applying answer outcomes to the
// progress schedule and the XP ledger.
package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
)

// DueReviews is the result of a due-review query: the shuffled question
// list plus how many items of each kind are waiting.
type DueReviews struct {
	Questions         []Question `json:"questions"`
	PendingCharacters int        `json:"pendingCharacters"`
	PendingWords      int        `json:"pendingWords"`
}

// AnswerSubmission is the client's graded answer for one sub-question.
type AnswerSubmission struct {
	ProgressID   uuid.UUID    `json:"progressId"`
	QuestionType QuestionType `json:"questionType"`
	Correct      bool         `json:"correct"`
	UsedHint     bool         `json:"usedHint"`
}

// AnswerResult reports the stage transition an answer caused.
type AnswerResult struct {
	PreviousStage int    `json:"previousStage"`
	NewStage      int    `json:"newStage"`
	StageName     string `json:"stageName"`
	Burned        bool   `json:"burned"`
	XPAwarded     int    `json:"xpAwarded"`
}

// ReviewService provides the review operations for one user.
type ReviewService interface {
	// GetDueReviews expands the user's due items into a shuffled
	// question list, most fragile items first before shuffling.
	GetDueReviews(ctx context.Context, userID uuid.UUID, limit int) (*DueReviews, error)

	// SubmitAnswer applies one graded sub-question answer: counters,
	// stage transition, schedule, and XP, atomically.
	//
	// Returns ErrReviewNotFound if the progress record does not exist
	// or belongs to another user, and ErrAlreadyBurned if the item has
	// already been burned.
	SubmitAnswer(ctx context.Context, userID uuid.UUID, sub AnswerSubmission) (*AnswerResult, error)

	// GradeAnswer grades a free-form answer against an item's accepted
	// meanings or readings without touching any state.
	GradeAnswer(ctx context.Context, itemID uuid.UUID, kind domain.ItemKind, questionType QuestionType, answer string) (bool, error)
}

// Common error types for ReviewService
var (
	// ErrReviewNotFound indicates the progress record does not exist or
	// is not visible to the requesting user.
	ErrReviewNotFound = errors.New("review not found")

	// ErrItemNotFound indicates the referenced item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrAlreadyBurned indicates the item is burned and no longer
	// accepts review answers.
	ErrAlreadyBurned = errors.New("item is already burned")

	// ErrInvalidQuestionType indicates an unknown question type.
	ErrInvalidQuestionType = errors.New("invalid question type")
)
