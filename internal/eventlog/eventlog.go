// Package eventlog appends attempt lifecycle events to an append-only
// activity log table, for audit and offline sync.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

type Event struct {
	Offset    int64
	Type      string // e.g. AttemptCompleted
	Key       string // natural key: attempt id
	DataJSON  string
	CreatedAt int64
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

// AttemptEvent satisfies the attempt service's event sink. Failures are
// dropped: the log is advisory and must not fail the request.
func (r *Repo) AttemptEvent(ctx context.Context, typ, attemptID string, payload any) {
	data := "{}"
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			data = string(b)
		}
	}
	_, _ = r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, attemptID, data, time.Now().Unix())
}

// Since returns events after the given offset, oldest first.
func (r *Repo) Since(ctx context.Context, offset int64, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT offset_id, typ, key, data, created_at FROM event_log
		 WHERE offset_id > $1 ORDER BY offset_id ASC LIMIT $2`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
