package lesson

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/domain/srs"
	"github.com/toriigate/torii-api/internal/platform/logger"
	"github.com/toriigate/torii-api/internal/service/access"
	"github.com/toriigate/torii-api/internal/service/review"
	"github.com/toriigate/torii-api/internal/service/xp"
	"github.com/toriigate/torii-api/internal/store"
)

// Verify interface compliance at compile time
var _ LessonService = (*lessonServiceImpl)(nil)

type lessonServiceImpl struct {
	db            *sql.DB
	progressStore store.ProgressStore
	contentStore  store.ContentStore
	xpStore       store.WeeklyXPStore
	ledger        *xp.Ledger
	access        access.Decider
	logger        *slog.Logger
	timeFunc      func() time.Time // Injectable for testing
}

// NewLessonService creates a new LessonService implementation.
func NewLessonService(
	db *sql.DB,
	progressStore store.ProgressStore,
	contentStore store.ContentStore,
	xpStore store.WeeklyXPStore,
	ledger *xp.Ledger,
	decider access.Decider,
	logger *slog.Logger,
) LessonService {
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

	return &lessonServiceImpl{
		db:            db,
		progressStore: progressStore,
		contentStore:  contentStore,
		xpStore:       xpStore,
		ledger:        ledger,
		access:        decider,
		logger:        logger.With(slog.String("component", "lesson_service")),
		timeFunc:      time.Now,
	}
}

// gateState is the recomputed unlock state of one level.
type gateState struct {
	lesson   *domain.Lesson
	counts   store.ItemCounts
	started  int
	unlocked bool
	complete bool
}

// computeGate walks the levels in ascending order and decides unlock
// and completion for each. The lowest level is always unlocked; every other
// level unlocks when the previous one is complete. A level is complete
// when it has items and every one of them has a progress record.
func computeGate(
	lessons []*domain.Lesson,
	counts map[uuid.UUID]store.ItemCounts,
	started map[uuid.UUID]int,
) map[int]gateState {
	gate := make(map[int]gateState, len(lessons))
	prevComplete := false
	for i, l := range lessons {
		c := counts[l.ID]
		s := started[l.ID]
		state := gateState{
			lesson:   l,
			counts:   c,
			started:  s,
			unlocked: i == 0 || prevComplete,
			complete: c.Total() > 0 && s >= c.Total(),
		}
		gate[l.Level] = state
		prevComplete = state.complete
	}
	return gate
}

// GetLessons implements LessonService.GetLessons.
func (s *lessonServiceImpl) GetLessons(ctx context.Context, userID uuid.UUID) ([]Overview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	lessons, err := s.contentStore.ListLessons(ctx)
	if err != nil {
		log.Error("failed to list lessons", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}

	counts, err := s.contentStore.ItemCountsByLesson(ctx)
	if err != nil {
		log.Error("failed to count lesson items", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to count lesson items: %w", err)
	}

	started, err := s.progressStore.StartedCountByLesson(ctx, userID)
	if err != nil {
		log.Error("failed to count started items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to count started items: %w", err)
	}

	gate := computeGate(lessons, counts, started)

	overviews := make([]Overview, 0, len(lessons))
	for _, l := range lessons {
		state := gate[l.Level]

		accessible, err := s.access.CanAccessLevel(ctx, userID, l.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to decide level access: %w", err)
		}

		percent := 0.0
		if total := state.counts.Total(); total > 0 {
			percent = float64(state.started) / float64(total) * 100
		}

		overviews = append(overviews, Overview{
			Level:           l.Level,
			JLPT:            access.JLPTTier(l.Level),
			Title:           l.Title,
			Description:     l.Description,
			Characters:      state.counts.Characters,
			Words:           state.counts.Words,
			Started:         state.started,
			ProgressPercent: percent,
			Unlocked:        state.unlocked,
			Complete:        state.complete,
			Accessible:      accessible,
		})
	}
	return overviews, nil
}

// LearnItems implements LessonService.LearnItems.
func (s *lessonServiceImpl) LearnItems(
	ctx context.Context,
	userID uuid.UUID,
	items []LearnItem,
) (*LearnResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, li := range items {
		if !li.Kind.IsValid() {
			return nil, ErrInvalidItemKind
		}
	}

	var result *LearnResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProgress := s.progressStore.WithTx(tx)
		txContent := s.contentStore.WithTx(tx)
		txXP := s.xpStore.WithTx(tx)

		lessons, err := txContent.ListLessons(ctx)
		if err != nil {
			return fmt.Errorf("failed to list lessons: %w", err)
		}
		counts, err := txContent.ItemCountsByLesson(ctx)
		if err != nil {
			return fmt.Errorf("failed to count lesson items: %w", err)
		}
		started, err := txProgress.StartedCountByLesson(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to count started items: %w", err)
		}
		gate := computeGate(lessons, counts, started)

		res := LearnResult{}
		baseXP := 0

		for _, li := range items {
			item, err := txContent.GetItem(ctx, li.ItemID, li.Kind)
			if err != nil {
				if errors.Is(err, store.ErrItemNotFound) {
					return ErrItemNotFound
				}
				return fmt.Errorf("failed to load item: %w", err)
			}

			level, err := txContent.GetItemLevel(ctx, li.ItemID, li.Kind)
			if err != nil {
				return fmt.Errorf("failed to resolve item level: %w", err)
			}

			state, ok := gate[level]
			if !ok || !state.unlocked {
				log.Warn("learn rejected for locked level",
					slog.String("user_id", userID.String()),
					slog.String("item_id", li.ItemID.String()),
					slog.Int("level", level))
				return ErrLevelLocked
			}

			accessible, err := s.access.CanAccessLevel(ctx, userID, level)
			if err != nil {
				return fmt.Errorf("failed to decide level access: %w", err)
			}
			if !accessible {
				return ErrAccessDenied
			}

			withReading := review.AsksReading(*item)
			questionCount := 1
			if withReading {
				questionCount = 2
			}

			stage := srs.FirstStage
			if li.KnownAlready {
				stage = srs.GuruStage
			}

			progress := domain.NewItemProgress(userID, li.ItemID, li.Kind, stage, now)
			progress.NextReviewAt = srs.NextReviewAt(stage, now)
			if li.KnownAlready {
				// Seed counters as if the lesson quiz answers had been
				// reviewed correctly.
				progress.MeaningCorrect = 1
				if withReading {
					progress.ReadingCorrect = 1
				}
			}

			created, err := txProgress.CreateIfAbsent(ctx, progress)
			if err != nil {
				return fmt.Errorf("failed to create progress: %w", err)
			}

			switch {
			case created && li.KnownAlready:
				res.SkippedAhead++
			case created:
				baseXP += xp.PerLessonQuestion * questionCount
			default:
				// Re-studying an already started item counts as one
				// correct, unhinted pass over its lesson questions.
				if err := txProgress.RecordLessonReview(ctx, userID, li.ItemID, li.Kind, withReading, now); err != nil {
					return fmt.Errorf("failed to record lesson review: %w", err)
				}
				baseXP += xp.PerLessonQuestion * questionCount
			}

			if created {
				switch li.Kind {
				case domain.ItemKindCharacter:
					res.Characters++
				case domain.ItemKindWord:
					res.Words++
				}
			}
		}

		awarded := s.ledger.Award(baseXP, now)
		if awarded > 0 {
			weekStart, weekEnd := s.ledger.WeekWindow(now)
			if err := txXP.AddXP(ctx, userID, weekStart, weekEnd, awarded); err != nil {
				return fmt.Errorf("failed to credit xp: %w", err)
			}
		}
		res.XPAwarded = awarded

		result = &res
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrItemNotFound) ||
			errors.Is(err, ErrLevelLocked) ||
			errors.Is(err, ErrAccessDenied) ||
			errors.Is(err, ErrNoItems) ||
			errors.Is(err, ErrInvalidItemKind) {
			return nil, err
		}
		log.Error("failed to learn items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("items", len(items)))
		return nil, fmt.Errorf("failed to learn items: %w", err)
	}

	log.Info("lesson items learned",
		slog.String("user_id", userID.String()),
		slog.Int("characters", result.Characters),
		slog.Int("words", result.Words),
		slog.Int("skipped_ahead", result.SkippedAhead),
		slog.Int("xp_awarded", result.XPAwarded))
	return result, nil
}
