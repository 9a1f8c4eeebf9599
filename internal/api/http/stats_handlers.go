package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/quizforge-api/internal/auth"
	"github.com/quizforge/quizforge-api/internal/quiz"
	"github.com/quizforge/quizforge-api/internal/reporting"
)

// GET /stats?timeframe=week&subject=...&difficulty=...
func UserStatsHandler(svc *reporting.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := reporting.StatsFilters{
			Timeframe:  r.URL.Query().Get("timeframe"),
			Subject:    r.URL.Query().Get("subject"),
			Difficulty: quiz.Difficulty(r.URL.Query().Get("difficulty")),
		}
		st, err := svc.UserStats(r.Context(), auth.SubjectFromContext(r.Context()), f)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func DashboardHandler(svc *reporting.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Dashboard(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// GET /leaderboard?limit=10 for the global board, or scoped to one quiz
// via /quizzes/{quizID}/leaderboard.
func LeaderboardHandler(svc *reporting.Service, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntDefault(r.URL.Query().Get("limit"), defaultLimit)
		entries, err := svc.LeaderboardFor(r.Context(), chi.URLParam(r, "quizID"), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// GET /attempts?status=completed&subject=...&from=2025-01-01&page=1&limit=20
func ListAttemptsHandler(svc *reporting.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := reporting.PageFilters{
			Subject:    q.Get("subject"),
			Difficulty: quiz.Difficulty(q.Get("difficulty")),
			Status:     quiz.AttemptStatus(q.Get("status")),
			From:       parseDate(q.Get("from")),
			To:         parseDate(q.Get("to")),
			Limit:      parseIntDefault(q.Get("limit"), 20),
			Page:       parseIntDefault(q.Get("page"), 1),
		}
		page, err := svc.AllAttempts(r.Context(), auth.SubjectFromContext(r.Context()), f)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
