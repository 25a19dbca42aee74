package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/domain/srs"
	"github.com/toriigate/torii-api/internal/platform/logger"
	"github.com/toriigate/torii-api/internal/store"
)

// Verify interface compliance at compile time
var _ ProgressService = (*progressServiceImpl)(nil)

type progressServiceImpl struct {
	progressStore store.ProgressStore
	logger        *slog.Logger
	timeFunc      func() time.Time // Injectable for testing
}

// NewProgressService creates a new ProgressService implementation.
func NewProgressService(progressStore store.ProgressStore, logger *slog.Logger) ProgressService {
	if progressStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("progressStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &progressServiceImpl{
		progressStore: progressStore,
		logger:        logger.With(slog.String("component", "progress_service")),
		timeFunc:      time.Now,
	}
}

// kindSummary folds a stage histogram into the per-kind view.
func kindSummary(counts store.StageCounts) KindSummary {
	ks := KindSummary{StageCounts: map[int]int{}}
	for stage, n := range counts {
		ks.StageCounts[stage] = n
		if stage == srs.BurnedStage {
			ks.Burned += n
		} else {
			ks.Learned += n
		}
	}
	return ks
}

// GetSummary implements ProgressService.GetSummary.
func (s *progressServiceImpl) GetSummary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	characterStages, err := s.progressStore.CountByStage(ctx, userID, domain.ItemKindCharacter)
	if err != nil {
		log.Error("failed to count character stages",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to count character stages: %w", err)
	}

	wordStages, err := s.progressStore.CountByStage(ctx, userID, domain.ItemKindWord)
	if err != nil {
		log.Error("failed to count word stages",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to count word stages: %w", err)
	}

	pending, err := s.progressStore.CountDue(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count due reviews: %w", err)
	}

	accuracy, err := s.progressStore.Accuracy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate accuracy: %w", err)
	}

	nextReview, err := s.progressStore.NextUpcomingReview(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find next review: %w", err)
	}

	summary := &Summary{
		Characters:        kindSummary(characterStages),
		Words:             kindSummary(wordStages),
		PendingCharacters: pending[domain.ItemKindCharacter],
		PendingWords:      pending[domain.ItemKindWord],
		TotalAnswers:      accuracy.Correct + accuracy.Incorrect,
		NextReviewAt:      nextReview,
	}
	if summary.TotalAnswers > 0 {
		summary.AccuracyPercent = float64(accuracy.Correct) / float64(summary.TotalAnswers) * 100
	}
	return summary, nil
}
