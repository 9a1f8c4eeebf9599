package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/quizforge/quizforge-api/internal/api/http"
	"github.com/quizforge/quizforge-api/internal/attempt"
	"github.com/quizforge/quizforge-api/internal/auth"
	"github.com/quizforge/quizforge-api/internal/config"
	"github.com/quizforge/quizforge-api/internal/db"
	"github.com/quizforge/quizforge-api/internal/eventlog"
	"github.com/quizforge/quizforge-api/internal/genai"
	"github.com/quizforge/quizforge-api/internal/quiz"
	"github.com/quizforge/quizforge-api/internal/rbac"
	"github.com/quizforge/quizforge-api/internal/reporting"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := quiz.NewSQLStore(dbh, cfg.DBDriver)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)
	if err := auth.SeedAdmin(dbh, cfg.AdminUser, cfg.AdminPassHash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// --- Services ---
	var gen quiz.QuestionGenerator
	if cfg.GenAIBaseURL != "" {
		gen = genai.NewClient(cfg.GenAIBaseURL, cfg.GenAIAPIKey)
	}
	events := eventlog.NewRepo(dbh)
	quizSvc := quiz.NewService(store, gen, nil)
	attemptSvc := attempt.NewService(store, attempt.WithEventSink(events))
	reportSvc := reporting.NewService(store, nil)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Quizzes
		pr.With(rbac.Require("quiz:create")).
			Post("/quizzes", api.CreateQuizHandler(quizSvc))
		pr.With(rbac.Require("quiz:generate")).
			Post("/quizzes/generate", api.GenerateQuizHandler(quizSvc))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes", api.ListQuizzesHandler(quizSvc))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", api.GetQuizHandler(quizSvc))
		pr.With(rbac.Require("quiz:edit")).
			Put("/quizzes/{quizID}", api.UpdateQuizHandler(quizSvc))
		pr.With(rbac.Require("quiz:delete")).
			Delete("/quizzes/{quizID}", api.DeleteQuizHandler(quizSvc))

		// Attempt flow
		pr.With(rbac.Require("attempt:create")).
			Post("/attempts", api.StartAttemptHandler(attemptSvc))
		pr.With(rbac.Require("attempt:view")).
			Get("/attempts", api.ListAttemptsHandler(reportSvc))
		pr.With(rbac.Require("attempt:view")).
			Get("/attempts/{attemptID}", api.GetAttemptHandler(attemptSvc))
		pr.With(rbac.Require("attempt:save")).
			Post("/attempts/{attemptID}/answer", api.SubmitAnswerHandler(attemptSvc))
		pr.With(rbac.Require("attempt:save")).
			Put("/attempts/{attemptID}/answers", api.SaveAnswersHandler(attemptSvc))
		pr.With(rbac.Require("attempt:save")).
			Post("/attempts/{attemptID}/flag", api.FlagQuestionHandler(attemptSvc))
		pr.With(rbac.Require("attempt:submit")).
			Post("/attempts/{attemptID}/complete", api.CompleteAttemptHandler(attemptSvc))
		pr.With(rbac.Require("attempt:submit")).
			Post("/attempts/{attemptID}/abandon", api.AbandonAttemptHandler(attemptSvc))
		pr.With(rbac.Require("attempt:view")).
			Get("/attempts/{attemptID}/progress", api.AttemptProgressHandler(attemptSvc))
		pr.With(rbac.Require("attempt:view")).
			Get("/attempts/{attemptID}/result", api.AttemptResultHandler(attemptSvc))

		// Stats and boards
		pr.With(rbac.Require("stats:view-own")).
			Get("/stats", api.UserStatsHandler(reportSvc))
		pr.With(rbac.Require("stats:view-own")).
			Get("/dashboard", api.DashboardHandler(reportSvc))
		pr.With(rbac.Require("leaderboard:view")).
			Get("/leaderboard", api.LeaderboardHandler(reportSvc, cfg.LeaderboardLimit))
		pr.With(rbac.Require("leaderboard:view")).
			Get("/quizzes/{quizID}/leaderboard", api.LeaderboardHandler(reportSvc, cfg.LeaderboardLimit))

		// Admin-only activity log tail
		pr.With(rbac.Require("events:view")).
			Get("/events", api.ListEventsHandler(events))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
