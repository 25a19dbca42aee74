package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/toriigate/torii-api/internal/config"
	"github.com/toriigate/torii-api/internal/platform/postgres"
	"github.com/toriigate/torii-api/internal/service/access"
	"github.com/toriigate/torii-api/internal/service/auth"
	"github.com/toriigate/torii-api/internal/service/burn"
	"github.com/toriigate/torii-api/internal/service/lesson"
	"github.com/toriigate/torii-api/internal/service/progress"
	"github.com/toriigate/torii-api/internal/service/review"
	"github.com/toriigate/torii-api/internal/service/xp"
)

// application holds the wired dependency graph of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService      auth.JWTService
	reviewService   review.ReviewService
	lessonService   lesson.LessonService
	burnService     burn.BurnService
	progressService progress.ProgressService
	xpService       xp.Service
}

// newApplication wires stores and services on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	loc, err := time.LoadLocation(cfg.XP.BonusTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load bonus timezone %q: %w", cfg.XP.BonusTimezone, err)
	}
	ledger := xp.NewLedger(loc)

	// The platform runs as an open beta, so every plan covers every
	// level for now.
	var decider access.Decider = access.AllowAll{}

	progressStore := postgres.NewPostgresProgressStore(db, logger)
	contentStore := postgres.NewPostgresContentStore(db, logger)
	xpStore := postgres.NewPostgresWeeklyXPStore(db, logger)
	userStore := postgres.NewPostgresUserStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create jwt service: %w", err)
	}

	return &application{
		config:     cfg,
		logger:     logger,
		db:         db,
		jwtService: jwtService,
		reviewService: review.NewReviewService(
			db, progressStore, contentStore, xpStore, ledger, decider, logger,
		),
		lessonService: lesson.NewLessonService(
			db, progressStore, contentStore, xpStore, ledger, decider, logger,
		),
		burnService:     burn.NewBurnService(db, progressStore, contentStore, decider, logger),
		progressService: progress.NewProgressService(progressStore, logger),
		xpService:       xp.NewService(xpStore, userStore, ledger, logger),
	}, nil
}
