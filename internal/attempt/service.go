// Package attempt owns the attempt lifecycle: the in-progress → completed /
// abandoned state machine, its guards, and the calls the routing layer
// consumes.
package attempt

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/quizforge-api/internal/quiz"
	"github.com/quizforge/quizforge-api/internal/scoring"
)

// EventSink receives attempt lifecycle events. May be nil.
type EventSink interface {
	AttemptEvent(ctx context.Context, typ, attemptID string, payload any)
}

type Service struct {
	store  quiz.Store
	grader *scoring.Grader
	clock  quiz.Clock
	events EventSink
}

type Option func(*Service)

func WithClock(c quiz.Clock) Option       { return func(s *Service) { s.clock = c } }
func WithEventSink(e EventSink) Option    { return func(s *Service) { s.events = e } }
func WithGrader(g *scoring.Grader) Option { return func(s *Service) { s.grader = g } }

func NewService(store quiz.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		grader: scoring.NewGrader(),
		clock:  quiz.SystemClock(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start opens an attempt for (quiz, user). An existing in-progress attempt
// is returned instead of creating a duplicate, unless its deadline has
// passed, in which case it is abandoned and a fresh attempt is created.
func (s *Service) Start(ctx context.Context, quizID, userID string) (quiz.Attempt, error) {
	qz, err := s.store.GetQuizFull(ctx, quizID)
	if err != nil {
		return quiz.Attempt{}, err
	}
	if !qz.IsPublic && qz.CreatedBy != userID {
		return quiz.Attempt{}, fmt.Errorf("quiz %s: %w", quizID, quiz.ErrForbidden)
	}
	if qz.Status != quiz.QuizPublished {
		return quiz.Attempt{}, fmt.Errorf("%w: quiz %s is not published", quiz.ErrStateConflict, quizID)
	}

	existing, err := s.store.FindActiveAttempt(ctx, quizID, userID)
	if err == nil {
		if !s.expired(existing) {
			return existing, nil
		}
		existing.Status = quiz.AttemptAbandoned
		if err := s.store.PutAttempt(ctx, existing); err != nil {
			return quiz.Attempt{}, err
		}
	}

	now := s.clock.Now()
	a := quiz.Attempt{
		ID:             uuid.NewString(),
		QuizID:         quizID,
		UserID:         userID,
		Status:         quiz.AttemptInProgress,
		Answers:        map[string]quiz.Answer{},
		TotalQuestions: len(qz.Questions),
		TimeLimit:      qz.TimeLimit,
		StartedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.PutAttempt(ctx, a); err != nil {
		return quiz.Attempt{}, err
	}
	s.emit(ctx, "AttemptStarted", a.ID, nil)
	return a, nil
}

// SubmitAnswer records one answer. Valid only while in-progress and inside
// the time limit.
func (s *Service) SubmitAnswer(ctx context.Context, attemptID, userID, questionID string, ans quiz.Answer) (quiz.Attempt, error) {
	a, err := s.mutable(ctx, attemptID, userID)
	if err != nil {
		return quiz.Attempt{}, err
	}
	if a.Answers == nil {
		a.Answers = map[string]quiz.Answer{}
	}
	a.Answers[questionID] = ans
	a.UpdatedAt = s.clock.Now()
	if err := s.store.PutAttempt(ctx, a); err != nil {
		return quiz.Attempt{}, err
	}
	return a, nil
}

// SaveAnswers merges a batch of answers key-by-key (last write wins).
func (s *Service) SaveAnswers(ctx context.Context, attemptID, userID string, answers map[string]quiz.Answer) (quiz.Attempt, error) {
	a, err := s.mutable(ctx, attemptID, userID)
	if err != nil {
		return quiz.Attempt{}, err
	}
	if a.Answers == nil {
		a.Answers = map[string]quiz.Answer{}
	}
	for id, ans := range answers {
		a.Answers[id] = ans
	}
	a.UpdatedAt = s.clock.Now()
	if err := s.store.PutAttempt(ctx, a); err != nil {
		return quiz.Attempt{}, err
	}
	return a, nil
}

// FlagQuestion marks or unmarks a question for review.
func (s *Service) FlagQuestion(ctx context.Context, attemptID, userID, questionID string, flagged bool) (quiz.Attempt, error) {
	a, err := s.mutable(ctx, attemptID, userID)
	if err != nil {
		return quiz.Attempt{}, err
	}
	if flagged {
		if !a.Flagged(questionID) {
			a.FlaggedQuestions = append(a.FlaggedQuestions, questionID)
		}
	} else {
		kept := a.FlaggedQuestions[:0]
		for _, id := range a.FlaggedQuestions {
			if id != questionID {
				kept = append(kept, id)
			}
		}
		a.FlaggedQuestions = kept
	}
	a.UpdatedAt = s.clock.Now()
	if err := s.store.PutAttempt(ctx, a); err != nil {
		return quiz.Attempt{}, err
	}
	return a, nil
}

// Complete scores the attempt against its quiz and returns the result. The
// scoring recomputes from scratch, so a retried Complete on an
// already-completed attempt is safe.
func (s *Service) Complete(ctx context.Context, attemptID, userID string) (scoring.Result, error) {
	a, err := s.mutable(ctx, attemptID, userID)
	if err != nil {
		return scoring.Result{}, err
	}
	qz, err := s.store.GetQuizFull(ctx, a.QuizID)
	if err != nil {
		return scoring.Result{}, err
	}

	s.grader.ScoreAttempt(&a, qz, s.clock.Now())
	a.UpdatedAt = s.clock.Now()
	if err := s.store.PutAttempt(ctx, a); err != nil {
		return scoring.Result{}, err
	}

	if err := s.refreshQuizStats(ctx, qz.ID); err != nil {
		// stats are advisory; completing the attempt wins
		s.emit(ctx, "QuizStatsRefreshFailed", a.ID, err.Error())
	}
	s.emit(ctx, "AttemptCompleted", a.ID, map[string]any{
		"score": a.Score, "total_score": a.TotalScore,
	})
	return s.grader.BuildResult(a, qz), nil
}

// Abandon explicitly ends an in-progress attempt without scoring it.
func (s *Service) Abandon(ctx context.Context, attemptID, userID string) (quiz.Attempt, error) {
	a, err := s.owned(ctx, attemptID, userID)
	if err != nil {
		return quiz.Attempt{}, err
	}
	if a.Status != quiz.AttemptInProgress {
		return quiz.Attempt{}, fmt.Errorf("attempt %s: %w", attemptID, quiz.ErrStateConflict)
	}
	a.Status = quiz.AttemptAbandoned
	a.UpdatedAt = s.clock.Now()
	if err := s.store.PutAttempt(ctx, a); err != nil {
		return quiz.Attempt{}, err
	}
	s.emit(ctx, "AttemptAbandoned", a.ID, nil)
	return a, nil
}

// Get returns an attempt to its owner.
func (s *Service) Get(ctx context.Context, attemptID, userID string) (quiz.Attempt, error) {
	return s.owned(ctx, attemptID, userID)
}

// Progress is the live view of an in-progress attempt.
type Progress struct {
	AttemptID          string             `json:"attempt_id"`
	Status             quiz.AttemptStatus `json:"status"`
	AnsweredQuestions  int                `json:"answered_questions"`
	TotalQuestions     int                `json:"total_questions"`
	ProgressPercentage int                `json:"progress_percentage"`
	FlaggedQuestions   []string           `json:"flagged_questions"`
	TimeLimit          int                `json:"time_limit_min,omitempty"`
	TimeRemaining      float64            `json:"time_remaining_min,omitempty"`
	StartedAt          time.Time          `json:"started_at"`
}

func (s *Service) Progress(ctx context.Context, attemptID, userID string) (Progress, error) {
	a, err := s.owned(ctx, attemptID, userID)
	if err != nil {
		return Progress{}, err
	}
	p := Progress{
		AttemptID:         a.ID,
		Status:            a.Status,
		AnsweredQuestions: len(a.Answers),
		TotalQuestions:    a.TotalQuestions,
		FlaggedQuestions:  a.FlaggedQuestions,
		TimeLimit:         a.TimeLimit,
		StartedAt:         a.StartedAt,
	}
	if a.TotalQuestions > 0 {
		p.ProgressPercentage = scoring.Percent(float64(len(a.Answers)), float64(a.TotalQuestions))
	}
	if a.TimeLimit > 0 {
		elapsed := s.clock.Now().Sub(a.StartedAt).Minutes()
		p.TimeRemaining = math.Max(0, float64(a.TimeLimit)-elapsed)
	}
	return p, nil
}

// Result rebuilds the scored result view. Only valid once completed.
func (s *Service) Result(ctx context.Context, attemptID, userID string) (scoring.Result, error) {
	a, err := s.owned(ctx, attemptID, userID)
	if err != nil {
		return scoring.Result{}, err
	}
	if a.Status != quiz.AttemptCompleted {
		return scoring.Result{}, fmt.Errorf("attempt %s is not completed: %w", attemptID, quiz.ErrStateConflict)
	}
	qz, err := s.store.GetQuizFull(ctx, a.QuizID)
	if err != nil {
		return scoring.Result{}, err
	}
	return s.grader.BuildResult(a, qz), nil
}

// owned loads an attempt and checks ownership.
func (s *Service) owned(ctx context.Context, attemptID, userID string) (quiz.Attempt, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return quiz.Attempt{}, err
	}
	if a.UserID != userID {
		return quiz.Attempt{}, fmt.Errorf("attempt %s: %w", attemptID, quiz.ErrForbidden)
	}
	return a, nil
}

// mutable loads an attempt and applies the mutation guards: ownership,
// in-progress status, and the time limit. A blown deadline abandons the
// attempt as a side effect and rejects the mutation.
func (s *Service) mutable(ctx context.Context, attemptID, userID string) (quiz.Attempt, error) {
	a, err := s.owned(ctx, attemptID, userID)
	if err != nil {
		return quiz.Attempt{}, err
	}
	if a.Status != quiz.AttemptInProgress {
		return quiz.Attempt{}, fmt.Errorf("attempt %s: %w", attemptID, quiz.ErrStateConflict)
	}
	if s.expired(a) {
		a.Status = quiz.AttemptAbandoned
		a.UpdatedAt = s.clock.Now()
		if err := s.store.PutAttempt(ctx, a); err != nil {
			return quiz.Attempt{}, err
		}
		s.emit(ctx, "AttemptExpired", a.ID, nil)
		return quiz.Attempt{}, fmt.Errorf("attempt %s: %w", attemptID, quiz.ErrDeadlineExceeded)
	}
	return a, nil
}

func (s *Service) expired(a quiz.Attempt) bool {
	if a.TimeLimit <= 0 {
		return false
	}
	return s.clock.Now().Sub(a.StartedAt).Minutes() > float64(a.TimeLimit)
}

// refreshQuizStats recomputes the quiz's completed-attempt count and rounded
// average score.
func (s *Service) refreshQuizStats(ctx context.Context, quizID string) error {
	recs, err := s.store.ListAttempts(ctx, quiz.AttemptFilter{
		QuizID: quizID,
		Status: quiz.AttemptCompleted,
	})
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return s.store.SetQuizStats(ctx, quizID, 0, 0)
	}
	sum := 0.0
	for _, r := range recs {
		sum += r.Score
	}
	avg := math.Round(sum / float64(len(recs)))
	return s.store.SetQuizStats(ctx, quizID, len(recs), avg)
}

func (s *Service) emit(ctx context.Context, typ, attemptID string, payload any) {
	if s.events != nil {
		s.events.AttemptEvent(ctx, typ, attemptID, payload)
	}
}
