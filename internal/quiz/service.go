package quiz

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GenerateParams are the knobs passed to the external question generator.
type GenerateParams struct {
	Subject       string       `json:"subject"`
	Topic         string       `json:"topic,omitempty"`
	AcademicLevel string       `json:"academic_level"`
	Language      string       `json:"language"`
	QuestionType  QuestionType `json:"question_type"`
	Difficulty    Difficulty   `json:"difficulty"`
	QuestionCount int          `json:"question_count"`
	TimeLimit     int          `json:"time_limit_min,omitempty"`
	Instructions  string       `json:"instructions,omitempty"`
}

// QuestionGenerator is the opaque external service that produces a question
// list for generation parameters. The LLM call itself lives behind it.
type QuestionGenerator interface {
	Generate(ctx context.Context, p GenerateParams) ([]Question, error)
}

// Service owns quiz CRUD and generation. Attempt lifecycle lives in the
// attempt package.
type Service struct {
	store Store
	gen   QuestionGenerator
	clock Clock
}

func NewService(store Store, gen QuestionGenerator, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	return &Service{store: store, gen: gen, clock: clock}
}

// Create validates, derives totals, and persists a quiz authored directly.
func (s *Service) Create(ctx context.Context, q Quiz, userID string) (Quiz, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.CreatedBy = userID
	if q.Status == "" {
		q.Status = QuizPublished
	}
	now := s.clock.Now()
	q.CreatedAt = now
	q.UpdatedAt = now
	if err := Validate(&q); err != nil {
		return Quiz{}, err
	}
	if err := s.store.PutQuiz(ctx, q); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

// Generate asks the external generator for questions and saves the result as
// a published quiz.
func (s *Service) Generate(ctx context.Context, p GenerateParams, userID string) (Quiz, error) {
	if s.gen == nil {
		return Quiz{}, fmt.Errorf("%w: question generation is not configured", ErrValidation)
	}
	if p.QuestionCount < 1 || p.QuestionCount > 100 {
		return Quiz{}, fmt.Errorf("%w: question count must be 1-100", ErrValidation)
	}
	questions, err := s.gen.Generate(ctx, p)
	if err != nil {
		return Quiz{}, fmt.Errorf("generate questions: %w", err)
	}
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
	}
	title := p.Subject
	if p.Topic != "" {
		title = p.Subject + " - " + p.Topic
	}
	q := Quiz{
		Title:         title,
		Subject:       p.Subject,
		Topic:         p.Topic,
		AcademicLevel: p.AcademicLevel,
		Difficulty:    p.Difficulty,
		Language:      p.Language,
		Questions:     questions,
		TimeLimit:     p.TimeLimit,
		IsPublic:      true,
		Status:        QuizPublished,
	}
	return s.Create(ctx, q, userID)
}

// Get returns a quiz. The full answer key is only visible to its creator;
// everyone else gets the redacted view, and private quizzes are hidden from
// non-owners entirely.
func (s *Service) Get(ctx context.Context, id, viewerID string) (Quiz, error) {
	q, err := s.store.GetQuizFull(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	if q.CreatedBy == viewerID {
		return q, nil
	}
	if !q.IsPublic {
		return Quiz{}, fmt.Errorf("quiz %s: %w", id, ErrForbidden)
	}
	return Redact(q), nil
}

// Update replaces mutable quiz fields. Only the creator may update, and the
// question list is re-validated so derived totals stay consistent.
func (s *Service) Update(ctx context.Context, q Quiz, userID string) (Quiz, error) {
	existing, err := s.store.GetQuizFull(ctx, q.ID)
	if err != nil {
		return Quiz{}, err
	}
	if existing.CreatedBy != userID {
		return Quiz{}, fmt.Errorf("quiz %s: %w", q.ID, ErrForbidden)
	}
	q.CreatedBy = existing.CreatedBy
	q.CreatedAt = existing.CreatedAt
	q.Attempts = existing.Attempts
	q.AverageScore = existing.AverageScore
	q.UpdatedAt = s.clock.Now()
	if err := Validate(&q); err != nil {
		return Quiz{}, err
	}
	if err := s.store.PutQuiz(ctx, q); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	q, err := s.store.GetQuizFull(ctx, id)
	if err != nil {
		return err
	}
	if q.CreatedBy != userID {
		return fmt.Errorf("quiz %s: %w", id, ErrForbidden)
	}
	return s.store.DeleteQuiz(ctx, id)
}

func (s *Service) List(ctx context.Context, opts QuizListOpts) ([]Quiz, error) {
	return s.store.ListQuizzes(ctx, opts)
}
