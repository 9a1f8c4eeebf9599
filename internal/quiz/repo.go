package quiz

import (
	"context"
	"time"
)

type QuizListOpts struct {
	Q         string // substring match on title/subject
	Subject   string
	CreatedBy string
	Status    QuizStatus
	Limit     int
	Offset    int
}

type AttemptFilter struct {
	UserID     string
	QuizID     string
	Status     AttemptStatus
	Subject    string
	Difficulty Difficulty
	From, To   time.Time // on attempt creation time
	Limit      int
	Offset     int
}

type Store interface {
	PutQuiz(ctx context.Context, q Quiz) error
	// GetQuiz returns a student-safe view: correct answers and explanations
	// are stripped.
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	// GetQuizFull returns the quiz with its full answer key, for scoring and
	// owner views.
	GetQuizFull(ctx context.Context, id string) (Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
	ListQuizzes(ctx context.Context, opts QuizListOpts) ([]Quiz, error)
	// SetQuizStats records the completed-attempt count and rounded average
	// score on the quiz row.
	SetQuizStats(ctx context.Context, id string, attempts int, avgScore float64) error

	PutAttempt(ctx context.Context, a Attempt) error
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	// FindActiveAttempt returns the in-progress attempt for (quiz, user), or
	// ErrNotFound when none exists.
	FindActiveAttempt(ctx context.Context, quizID, userID string) (Attempt, error)
	// ListAttempts returns attempts joined with quiz metadata. Attempts whose
	// quiz no longer resolves are excluded rather than failing the listing.
	ListAttempts(ctx context.Context, f AttemptFilter) ([]AttemptRecord, error)
	CountAttemptsByStatus(ctx context.Context, userID string) (map[AttemptStatus]int, error)
}

// Clock supplies wall-clock time so deadline checks and scoring are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// ClockFunc adapts a func to Clock, for fixed clocks in tests.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Redact strips answer keys and explanations from a quiz before it is shown
// to a learner with an open attempt.
func Redact(q Quiz) Quiz {
	qs := make([]Question, len(q.Questions))
	copy(qs, q.Questions)
	for i := range qs {
		qs[i].CorrectAnswer = Answer{}
		qs[i].Explanation = ""
	}
	q.Questions = qs
	return q
}
