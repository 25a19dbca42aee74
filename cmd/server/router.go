package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/toriigate/torii-api/internal/api"
	apiMiddleware "github.com/toriigate/torii-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	lessonHandler := api.NewLessonHandler(app.lessonService, app.logger)
	burnHandler := api.NewBurnHandler(app.burnService, app.logger)
	skipHandler := api.NewSkipHandler(app.burnService, app.logger)
	leaderboardHandler := api.NewLeaderboardHandler(app.xpService, app.logger)
	progressHandler := api.NewProgressHandler(app.progressService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/reviews", reviewHandler.GetDueReviews)
			r.Post("/reviews", reviewHandler.SubmitAnswer)
			r.Post("/reviews/grade", reviewHandler.GradeAnswer)

			r.Get("/lessons", lessonHandler.GetLessons)
			r.Post("/lessons/learn", lessonHandler.LearnItems)
			r.Post("/lessons/skip-jlpt", skipHandler.SkipJLPT)
			r.Post("/lessons/{lessonID}/skip", skipHandler.SkipLesson)

			r.Get("/burned", burnHandler.GetBurned)
			r.Post("/burned", burnHandler.BurnItem)
			r.Patch("/burned", burnHandler.UnburnItem)

			r.Get("/leaderboard", leaderboardHandler.GetLeaderboard)
			r.Get("/progress", progressHandler.GetSummary)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
