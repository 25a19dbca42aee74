package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/domain/srs"
	"github.com/toriigate/torii-api/internal/platform/logger"
	"github.com/toriigate/torii-api/internal/service/access"
	"github.com/toriigate/torii-api/internal/service/xp"
	"github.com/toriigate/torii-api/internal/store"
)

// defaultDueLimit bounds one review session when the caller does not ask
// for a specific batch size.
const defaultDueLimit = 100

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

type reviewServiceImpl struct {
	db            *sql.DB
	progressStore store.ProgressStore
	contentStore  store.ContentStore
	xpStore       store.WeeklyXPStore
	ledger        *xp.Ledger
	access        access.Decider
	logger        *slog.Logger
	timeFunc      func() time.Time // Injectable for testing
	rng           *rand.Rand       // Injectable for testing; nil uses the shared source
}

// NewReviewService creates a new ReviewService implementation.
func NewReviewService(
	db *sql.DB,
	progressStore store.ProgressStore,
	contentStore store.ContentStore,
	xpStore store.WeeklyXPStore,
	ledger *xp.Ledger,
	decider access.Decider,
	logger *slog.Logger,
) ReviewService {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if progressStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("progressStore cannot be nil")
	}
	if contentStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("contentStore cannot be nil")
	}
	if xpStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("xpStore cannot be nil")
	}
	if ledger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("ledger cannot be nil")
	}
	if decider == nil {
		decider = access.AllowAll{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		db:            db,
		progressStore: progressStore,
		contentStore:  contentStore,
		xpStore:       xpStore,
		ledger:        ledger,
		access:        decider,
		logger:        logger.With(slog.String("component", "review_service")),
		timeFunc:      time.Now,
	}
}

// GetDueReviews implements ReviewService.GetDueReviews.
func (s *reviewServiceImpl) GetDueReviews(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) (*DueReviews, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	if limit <= 0 {
		limit = defaultDueLimit
	}

	due, err := s.progressStore.FindDue(ctx, userID, now, limit)
	if err != nil {
		log.Error("failed to find due reviews",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to find due reviews: %w", err)
	}

	// Due items from levels the user's plan does not cover stay
	// scheduled but are never served.
	allowed := map[int]bool{}
	levelAllowed := func(level int) (bool, error) {
		ok, seen := allowed[level]
		if seen {
			return ok, nil
		}
		ok, err := s.access.CanAccessLevel(ctx, userID, level)
		if err != nil {
			return false, fmt.Errorf("failed to decide level access: %w", err)
		}
		allowed[level] = ok
		return ok, nil
	}

	accessible := make([]store.DueReview, 0, len(due))
	for _, r := range due {
		ok, err := levelAllowed(r.Level)
		if err != nil {
			return nil, err
		}
		if ok {
			accessible = append(accessible, r)
		}
	}

	counts, err := s.progressStore.CountDueByLevel(ctx, userID, now)
	if err != nil {
		log.Error("failed to count due reviews",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to count due reviews: %w", err)
	}

	pending := map[domain.ItemKind]int{}
	for _, c := range counts {
		ok, err := levelAllowed(c.Level)
		if err != nil {
			return nil, err
		}
		if ok {
			pending[c.Kind] += c.Count
		}
	}

	result := &DueReviews{
		Questions:         ExpandQuestions(accessible, s.rng),
		PendingCharacters: pending[domain.ItemKindCharacter],
		PendingWords:      pending[domain.ItemKindWord],
	}

	log.Debug("expanded due reviews",
		slog.String("user_id", userID.String()),
		slog.Int("items", len(accessible)),
		slog.Int("questions", len(result.Questions)))
	return result, nil
}

// SubmitAnswer implements ReviewService.SubmitAnswer.
func (s *reviewServiceImpl) SubmitAnswer(
	ctx context.Context,
	userID uuid.UUID,
	sub AnswerSubmission,
) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	if !sub.QuestionType.IsValid() {
		log.Warn("invalid question type in answer submission",
			slog.String("user_id", userID.String()),
			slog.String("question_type", string(sub.QuestionType)))
		return nil, ErrInvalidQuestionType
	}

	var result *AnswerResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProgress := s.progressStore.WithTx(tx)
		txXP := s.xpStore.WithTx(tx)

		progress, err := txProgress.GetByIDForUpdate(ctx, sub.ProgressID)
		if err != nil {
			if errors.Is(err, store.ErrProgressNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("failed to load progress: %w", err)
		}

		// Ownership failures look identical to missing records so the
		// endpoint does not leak other users' progress IDs.
		if progress.UserID != userID {
			log.Warn("answer submitted for another user's progress",
				slog.String("user_id", userID.String()),
				slog.String("progress_id", sub.ProgressID.String()))
			return ErrReviewNotFound
		}

		if progress.IsBurned() {
			return ErrAlreadyBurned
		}

		previousStage := progress.Stage

		switch sub.QuestionType {
		case QuestionMeaning:
			if sub.Correct {
				progress.MeaningCorrect++
			} else {
				progress.MeaningIncorrect++
			}
		case QuestionReading:
			if sub.Correct {
				progress.ReadingCorrect++
			} else {
				progress.ReadingIncorrect++
			}
		}

		progress.Stage = srs.NextStage(previousStage, sub.Correct)
		progress.LastReviewedAt = &now
		progress.NextReviewAt = srs.NextReviewAt(progress.Stage, now)

		burned := progress.IsBurned()
		if burned {
			progress.BurnedAt = &now
		}

		if err := txProgress.Update(ctx, progress); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}

		// Hinted answers advance the schedule but earn nothing.
		base := 0
		if sub.Correct && !sub.UsedHint {
			base = xp.PerCorrectAnswer
			if burned {
				base += xp.BurnBonus
			}
		}

		awarded := s.ledger.Award(base, now)
		if awarded > 0 {
			weekStart, weekEnd := s.ledger.WeekWindow(now)
			if err := txXP.AddXP(ctx, userID, weekStart, weekEnd, awarded); err != nil {
				return fmt.Errorf("failed to credit xp: %w", err)
			}
		}

		result = &AnswerResult{
			PreviousStage: previousStage,
			NewStage:      progress.Stage,
			StageName:     srs.StageName(progress.Stage),
			Burned:        burned,
			XPAwarded:     awarded,
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrReviewNotFound) ||
			errors.Is(err, ErrAlreadyBurned) ||
			errors.Is(err, ErrInvalidQuestionType) {
			return nil, err
		}
		log.Error("failed to submit answer",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("progress_id", sub.ProgressID.String()))
		return nil, fmt.Errorf("failed to submit answer: %w", err)
	}

	log.Info("review answer applied",
		slog.String("user_id", userID.String()),
		slog.String("progress_id", sub.ProgressID.String()),
		slog.String("question_type", string(sub.QuestionType)),
		slog.Bool("correct", sub.Correct),
		slog.Int("previous_stage", result.PreviousStage),
		slog.Int("new_stage", result.NewStage),
		slog.Int("xp_awarded", result.XPAwarded))
	return result, nil
}

// GradeAnswer implements ReviewService.GradeAnswer.
func (s *reviewServiceImpl) GradeAnswer(
	ctx context.Context,
	itemID uuid.UUID,
	kind domain.ItemKind,
	questionType QuestionType,
	answer string,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !questionType.IsValid() {
		return false, ErrInvalidQuestionType
	}

	item, err := s.contentStore.GetItem(ctx, itemID, kind)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return false, ErrItemNotFound
		}
		log.Error("failed to load item for grading",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return false, fmt.Errorf("failed to load item: %w", err)
	}

	meanings := item.Meanings
	if item.PrimaryMeaning != "" {
		meanings = append([]string{item.PrimaryMeaning}, item.Meanings...)
	}
	return Grade(questionType, answer, meanings, item.Readings), nil
}
