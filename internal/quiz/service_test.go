package quiz_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quizforge/quizforge-api/internal/quiz"
)

type fakeGenerator struct {
	gotParams quiz.GenerateParams
	questions []quiz.Question
	err       error
}

func (f *fakeGenerator) Generate(_ context.Context, p quiz.GenerateParams) ([]quiz.Question, error) {
	f.gotParams = p
	return f.questions, f.err
}

func fixedClock() quiz.Clock {
	return quiz.ClockFunc(func() time.Time {
		return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	})
}

func TestServiceCreate(t *testing.T) {
	store := quiz.NewInMemoryStore()
	svc := quiz.NewService(store, nil, fixedClock())
	ctx := context.Background()

	created, err := svc.Create(ctx, validQuiz(), "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CreatedBy != "u1" {
		t.Fatalf("created_by = %q, want u1", created.CreatedBy)
	}
	if created.Status != quiz.QuizPublished {
		t.Fatalf("default status = %s, want published", created.Status)
	}
	if created.TotalPoints != 4 {
		t.Fatalf("derived total points = %.1f, want 4", created.TotalPoints)
	}

	bad := validQuiz()
	bad.Questions = nil
	if _, err := svc.Create(ctx, bad, "u1"); !errors.Is(err, quiz.ErrValidation) {
		t.Fatalf("invalid quiz: err = %v, want ErrValidation", err)
	}
}

func TestServiceGet_Redaction(t *testing.T) {
	store := quiz.NewInMemoryStore()
	svc := quiz.NewService(store, nil, fixedClock())
	ctx := context.Background()

	q := validQuiz()
	q.IsPublic = true
	owned, _ := svc.Create(ctx, q, "owner")

	full, err := svc.Get(ctx, owned.ID, "owner")
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if full.Questions[0].CorrectAnswer.IsZero() {
		t.Fatalf("owner should see the answer key")
	}

	public, err := svc.Get(ctx, owned.ID, "someone-else")
	if err != nil {
		t.Fatalf("public get: %v", err)
	}
	for _, qq := range public.Questions {
		if !qq.CorrectAnswer.IsZero() || qq.Explanation != "" {
			t.Fatalf("answer key leaked to non-owner: %+v", qq)
		}
	}
}

func TestServiceGet_PrivateQuiz(t *testing.T) {
	store := quiz.NewInMemoryStore()
	svc := quiz.NewService(store, nil, fixedClock())
	ctx := context.Background()

	q := validQuiz()
	q.IsPublic = false
	owned, _ := svc.Create(ctx, q, "owner")

	if _, err := svc.Get(ctx, owned.ID, "stranger"); !errors.Is(err, quiz.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Get(ctx, "missing", "owner"); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestServiceUpdate(t *testing.T) {
	store := quiz.NewInMemoryStore()
	svc := quiz.NewService(store, nil, fixedClock())
	ctx := context.Background()

	created, _ := svc.Create(ctx, validQuiz(), "owner")

	upd := created
	upd.Title = "Capitals v2"
	upd.CreatedBy = "attacker" // must be ignored
	got, err := svc.Update(ctx, upd, "owner")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "Capitals v2" || got.CreatedBy != "owner" {
		t.Fatalf("update result = %+v", got)
	}

	if _, err := svc.Update(ctx, created, "stranger"); !errors.Is(err, quiz.ErrForbidden) {
		t.Fatalf("foreign update: err = %v, want ErrForbidden", err)
	}
}

func TestServiceDelete(t *testing.T) {
	store := quiz.NewInMemoryStore()
	svc := quiz.NewService(store, nil, fixedClock())
	ctx := context.Background()

	created, _ := svc.Create(ctx, validQuiz(), "owner")
	if err := svc.Delete(ctx, created.ID, "stranger"); !errors.Is(err, quiz.ErrForbidden) {
		t.Fatalf("foreign delete: err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, created.ID, "owner"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID, "owner"); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("deleted quiz still readable: %v", err)
	}
}

func TestServiceGenerate(t *testing.T) {
	store := quiz.NewInMemoryStore()
	gen := &fakeGenerator{questions: []quiz.Question{
		{Prompt: "2+2?", Type: quiz.TypeMCQ, Options: []string{"3", "4"},
			CorrectAnswer: quiz.Single("4"), Points: 1},
	}}
	svc := quiz.NewService(store, gen, fixedClock())
	ctx := context.Background()

	p := quiz.GenerateParams{
		Subject: "Math", Topic: "Arithmetic", QuestionCount: 1,
		Difficulty: quiz.DifficultyEasy, QuestionType: quiz.TypeMCQ,
	}
	q, err := svc.Generate(ctx, p, "u1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if q.Title != "Math - Arithmetic" {
		t.Fatalf("title = %q", q.Title)
	}
	if q.Status != quiz.QuizPublished || !q.IsPublic {
		t.Fatalf("generated quiz not published publicly: %+v", q)
	}
	if q.Questions[0].ID == "" {
		t.Fatalf("generated question was not assigned an id")
	}
	if gen.gotParams.Subject != "Math" {
		t.Fatalf("generator params not passed through: %+v", gen.gotParams)
	}

	if _, err := svc.Generate(ctx, quiz.GenerateParams{Subject: "Math"}, "u1"); !errors.Is(err, quiz.ErrValidation) {
		t.Fatalf("zero question count: err = %v, want ErrValidation", err)
	}
	p.QuestionCount = 500
	if _, err := svc.Generate(ctx, p, "u1"); !errors.Is(err, quiz.ErrValidation) {
		t.Fatalf("question count over cap: err = %v, want ErrValidation", err)
	}
}

func TestServiceGenerate_NotConfigured(t *testing.T) {
	svc := quiz.NewService(quiz.NewInMemoryStore(), nil, fixedClock())
	p := quiz.GenerateParams{Subject: "Math", QuestionCount: 1}
	if _, err := svc.Generate(context.Background(), p, "u1"); !errors.Is(err, quiz.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
