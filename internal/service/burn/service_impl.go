package burn

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
	"github.com/toriigate/torii-api/internal/store"
)

// Verify interface compliance at compile time
var _ BurnService = (*burnServiceImpl)(nil)

type burnServiceImpl struct {
	db            *sql.DB
	progressStore store.ProgressStore
	contentStore  store.ContentStore
	access        access.Decider
	logger        *slog.Logger
	timeFunc      func() time.Time // Injectable for testing
}

// NewBurnService creates a new BurnService implementation.
func NewBurnService(
	db *sql.DB,
	progressStore store.ProgressStore,
	contentStore store.ContentStore,
	decider access.Decider,
	logger *slog.Logger,
) BurnService {
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
	if decider == nil {
		decider = access.AllowAll{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &burnServiceImpl{
		db:            db,
		progressStore: progressStore,
		contentStore:  contentStore,
		access:        decider,
		logger:        logger.With(slog.String("component", "burn_service")),
		timeFunc:      time.Now,
	}
}

// BurnItem implements BurnService.BurnItem.
func (s *burnServiceImpl) BurnItem(
	ctx context.Context,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	// Reject burns of items that do not exist before writing anything.
	if _, err := s.contentStore.GetItem(ctx, itemID, kind); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to load item: %w", err)
	}

	if err := s.progressStore.Burn(ctx, userID, itemID, kind, now); err != nil {
		log.Error("failed to burn item",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()))
		return fmt.Errorf("failed to burn item: %w", err)
	}
	return nil
}

// UnburnItem implements BurnService.UnburnItem.
func (s *burnServiceImpl) UnburnItem(
	ctx context.Context,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProgress := s.progressStore.WithTx(tx)

		progress, err := txProgress.Get(ctx, userID, itemID, kind)
		if err != nil {
			if errors.Is(err, store.ErrProgressNotFound) {
				return ErrNotBurned
			}
			return fmt.Errorf("failed to load progress: %w", err)
		}
		if !progress.IsBurned() {
			return ErrNotBurned
		}

		nextReviewAt := srs.NextReviewAt(srs.FirstStage, now)
		if err := txProgress.Unburn(ctx, userID, itemID, kind, *nextReviewAt); err != nil {
			return fmt.Errorf("failed to unburn item: %w", err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrNotBurned) {
			return err
		}
		log.Error("failed to unburn item",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()))
		return err
	}

	log.Info("item restored to review queue",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("item_kind", string(kind)))
	return nil
}

// burnKeys retires the given items inside one transaction and tallies
// them per kind.
func (s *burnServiceImpl) burnKeys(
	ctx context.Context,
	userID uuid.UUID,
	keys []store.ItemKey,
	now time.Time,
) (*SkipResult, error) {
	result := &SkipResult{}
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProgress := s.progressStore.WithTx(tx)

		for _, key := range keys {
			if err := txProgress.Burn(ctx, userID, key.ID, key.Kind, now); err != nil {
				return fmt.Errorf("failed to burn item: %w", err)
			}
			switch key.Kind {
			case domain.ItemKindCharacter:
				result.Characters++
			case domain.ItemKindWord:
				result.Words++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SkipToLevel implements BurnService.SkipToLevel.
func (s *burnServiceImpl) SkipToLevel(
	ctx context.Context,
	userID uuid.UUID,
	startLevel int,
) (*SkipResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	accessible, err := s.access.CanAccessLevel(ctx, userID, startLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to decide level access: %w", err)
	}
	if !accessible {
		return nil, ErrAccessDenied
	}

	keys, err := s.contentStore.ItemKeysBelowLevel(ctx, startLevel)
	if err != nil {
		log.Error("failed to list items below level",
			slog.String("error", err.Error()),
			slog.Int("start_level", startLevel))
		return nil, fmt.Errorf("failed to list items below level: %w", err)
	}

	result, err := s.burnKeys(ctx, userID, keys, now)
	if err != nil {
		log.Error("failed to skip to level",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("start_level", startLevel))
		return nil, err
	}

	log.Info("skipped ahead to level",
		slog.String("user_id", userID.String()),
		slog.Int("start_level", startLevel),
		slog.Int("characters", result.Characters),
		slog.Int("words", result.Words))
	return result, nil
}

// SkipLesson implements BurnService.SkipLesson.
func (s *burnServiceImpl) SkipLesson(
	ctx context.Context,
	userID, lessonID uuid.UUID,
) (*SkipResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	lesson, err := s.contentStore.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	if lesson.Level != 0 {
		return nil, ErrLessonNotSkippable
	}

	keys, err := s.contentStore.ItemKeysByLesson(ctx, lessonID)
	if err != nil {
		log.Error("failed to list lesson items",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lessonID.String()))
		return nil, fmt.Errorf("failed to list lesson items: %w", err)
	}

	result, err := s.burnKeys(ctx, userID, keys, now)
	if err != nil {
		log.Error("failed to skip lesson",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("lesson_id", lessonID.String()))
		return nil, err
	}

	log.Info("lesson skipped",
		slog.String("user_id", userID.String()),
		slog.String("lesson_id", lessonID.String()),
		slog.Int("characters", result.Characters),
		slog.Int("words", result.Words))
	return result, nil
}

// GetBurned implements BurnService.GetBurned.
func (s *burnServiceImpl) GetBurned(ctx context.Context, userID uuid.UUID) (*BurnedItems, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	burned, err := s.progressStore.FindBurned(ctx, userID)
	if err != nil {
		log.Error("failed to list burned items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list burned items: %w", err)
	}

	result := &BurnedItems{Items: make([]BurnedItem, 0, len(burned))}
	for _, b := range burned {
		result.Items = append(result.Items, BurnedItem{
			ItemID:         b.Item.ID,
			Kind:           b.Item.Kind,
			Level:          b.Level,
			Glyph:          b.Item.Glyph,
			PrimaryMeaning: b.Item.PrimaryMeaning,
			Meanings:       b.Item.Meanings,
			Readings:       b.Item.Readings,
			BurnedAt:       b.Progress.BurnedAt,
		})
		switch b.Item.Kind {
		case domain.ItemKindCharacter:
			result.Characters++
		case domain.ItemKindWord:
			result.Words++
		}
	}
	return result, nil
}
