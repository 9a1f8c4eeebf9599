package quiz

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// memoryStore keeps quizzes and attempts in maps guarded by an RWMutex.
// Used in tests and for single-process dev runs.
type memoryStore struct {
	mu       sync.RWMutex
	quizzes  map[string]Quiz
	attempts map[string]Attempt
}

func NewInMemoryStore() Store {
	return &memoryStore{
		quizzes:  map[string]Quiz{},
		attempts: map[string]Attempt{},
	}
}

func (m *memoryStore) PutQuiz(_ context.Context, q Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q
	return nil
}

func (m *memoryStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	q, err := m.GetQuizFull(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	return Redact(q), nil
}

func (m *memoryStore) GetQuizFull(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, fmt.Errorf("quiz %s: %w", id, ErrNotFound)
	}
	return q, nil
}

func (m *memoryStore) DeleteQuiz(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[id]; !ok {
		return fmt.Errorf("quiz %s: %w", id, ErrNotFound)
	}
	delete(m.quizzes, id)
	return nil
}

func (m *memoryStore) ListQuizzes(_ context.Context, opts QuizListOpts) ([]Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Quiz
	for _, q := range m.quizzes {
		if opts.CreatedBy != "" && q.CreatedBy != opts.CreatedBy {
			continue
		}
		if opts.Subject != "" && q.Subject != opts.Subject {
			continue
		}
		if opts.Status != "" && q.Status != opts.Status {
			continue
		}
		if opts.Q != "" {
			needle := strings.ToLower(opts.Q)
			if !strings.Contains(strings.ToLower(q.Title), needle) &&
				!strings.Contains(strings.ToLower(q.Subject), needle) {
				continue
			}
		}
		out = append(out, Redact(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) SetQuizStats(_ context.Context, id string, attempts int, avgScore float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[id]
	if !ok {
		return fmt.Errorf("quiz %s: %w", id, ErrNotFound)
	}
	q.Attempts = attempts
	q.AverageScore = avgScore
	m.quizzes[id] = q
	return nil
}

func (m *memoryStore) PutAttempt(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.ID] = a
	return nil
}

func (m *memoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, fmt.Errorf("attempt %s: %w", id, ErrNotFound)
	}
	return a, nil
}

func (m *memoryStore) FindActiveAttempt(_ context.Context, quizID, userID string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.attempts {
		if a.QuizID == quizID && a.UserID == userID && a.Status == AttemptInProgress {
			return a, nil
		}
	}
	return Attempt{}, fmt.Errorf("active attempt for quiz %s: %w", quizID, ErrNotFound)
}

func (m *memoryStore) ListAttempts(_ context.Context, f AttemptFilter) ([]AttemptRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []AttemptRecord
	for _, a := range m.attempts {
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.QuizID != "" && a.QuizID != f.QuizID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && a.StartedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && a.StartedAt.After(f.To) {
			continue
		}
		q, ok := m.quizzes[a.QuizID]
		if !ok {
			continue // dangling quiz reference: skip, don't fail the report
		}
		if f.Subject != "" && q.Subject != f.Subject {
			continue
		}
		if f.Difficulty != "" && q.Difficulty != f.Difficulty {
			continue
		}
		out = append(out, AttemptRecord{
			Attempt: a,
			Quiz: QuizMeta{
				ID:          q.ID,
				Title:       q.Title,
				Subject:     q.Subject,
				Topic:       q.Topic,
				Difficulty:  q.Difficulty,
				TimeLimit:   q.TimeLimit,
				TotalPoints: q.TotalPoints,
			},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func (m *memoryStore) CountAttemptsByStatus(_ context.Context, userID string) (map[AttemptStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[AttemptStatus]int{}
	for _, a := range m.attempts {
		if a.UserID == userID {
			counts[a.Status]++
		}
	}
	return counts, nil
}

func page[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return nil
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
