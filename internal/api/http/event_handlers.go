package http

import (
	"net/http"
	"strconv"

	"github.com/quizforge/quizforge-api/internal/eventlog"
)

// GET /events?offset=0&limit=100, the admin-only tail of the activity log.
func ListEventsHandler(repo *eventlog.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		events, err := repo.Since(r.Context(), offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}
