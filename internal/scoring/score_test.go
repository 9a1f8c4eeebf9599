package scoring_test

import (
	"testing"
	"time"

	"github.com/quizforge/quizforge-api/internal/quiz"
	"github.com/quizforge/quizforge-api/internal/scoring"
)

func sampleQuiz() quiz.Quiz {
	return quiz.Quiz{
		ID:      "qz1",
		Title:   "Physics Basics",
		Subject: "Physics",
		Topic:   "Mechanics",
		Questions: []quiz.Question{
			{ID: "q1", Prompt: "F = ?", Type: quiz.TypeMCQ, Points: 3,
				Difficulty: quiz.DifficultyEasy, CorrectAnswer: quiz.Single("ma"),
				Explanation: "Newton's second law."},
			{ID: "q2", Prompt: "Units of work?", Type: quiz.TypeMCQ, Points: 2,
				Difficulty: quiz.DifficultyHard, CorrectAnswer: quiz.Single("joule")},
		},
		TotalPoints: 5,
	}
}

func TestScoreAttempt_PartialCredit(t *testing.T) {
	g := scoring.NewGrader()
	qz := sampleQuiz()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := quiz.Attempt{
		ID: "a1", QuizID: "qz1", UserID: "u1",
		Status:    quiz.AttemptInProgress,
		StartedAt: started,
		Answers: map[string]quiz.Answer{
			"q1": quiz.Single("ma"),
			"q2": quiz.Single("watt"),
		},
	}

	now := started.Add(12 * time.Minute)
	g.ScoreAttempt(&a, qz, now)

	if a.Status != quiz.AttemptCompleted || !a.IsCompleted {
		t.Fatalf("attempt not completed: status=%s", a.Status)
	}
	if a.Score != 3 || a.TotalScore != 5 {
		t.Fatalf("score = %.1f/%.1f, want 3/5", a.Score, a.TotalScore)
	}
	if a.CorrectAnswers != 1 {
		t.Fatalf("correct answers = %d, want 1", a.CorrectAnswers)
	}
	if a.TimeSpent != 12 {
		t.Fatalf("time spent = %d, want 12", a.TimeSpent)
	}
	if a.CompletedAt == nil || !a.CompletedAt.Equal(now) {
		t.Fatalf("completed_at not set to scoring time")
	}

	// Grade derives from the share of questions answered correctly, not
	// points: 1 of 2 questions is 50%, even though 3 of 5 points is 60%.
	res := g.BuildResult(a, qz)
	if res.Performance.Percentage != 50 {
		t.Fatalf("percentage = %d, want 50", res.Performance.Percentage)
	}
	if res.Performance.Grade != "C+" || res.Performance.GPA != 2.50 {
		t.Fatalf("grade = %s/%.2f, want C+/2.50", res.Performance.Grade, res.Performance.GPA)
	}
}

func TestScoreAttempt_AllCorrect(t *testing.T) {
	g := scoring.NewGrader()
	qz := sampleQuiz()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := quiz.Attempt{
		ID: "a2", Status: quiz.AttemptInProgress, StartedAt: started,
		Answers: map[string]quiz.Answer{
			"q1": quiz.Single("MA"),
			"q2": quiz.Single(" Joule"),
		},
	}

	g.ScoreAttempt(&a, qz, started.Add(5*time.Minute))
	if a.Score != 5 || a.CorrectAnswers != 2 {
		t.Fatalf("score = %.1f correct=%d, want 5 and 2", a.Score, a.CorrectAnswers)
	}
	res := g.BuildResult(a, qz)
	if res.Performance.Percentage != 100 || res.Performance.Grade != "A+" {
		t.Fatalf("got %d%% %s, want 100%% A+", res.Performance.Percentage, res.Performance.Grade)
	}
}

func TestScoreAttempt_Rescore(t *testing.T) {
	g := scoring.NewGrader()
	qz := sampleQuiz()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := quiz.Attempt{
		ID: "a3", Status: quiz.AttemptInProgress, StartedAt: started,
		Answers: map[string]quiz.Answer{"q1": quiz.Single("ma")},
	}

	first := started.Add(8 * time.Minute)
	g.ScoreAttempt(&a, qz, first)
	g.ScoreAttempt(&a, qz, first.Add(time.Hour))

	// Recomputed from scratch: nothing accumulates, and the original
	// completion time sticks.
	if a.Score != 3 || a.CorrectAnswers != 1 {
		t.Fatalf("re-score accumulated: score=%.1f correct=%d", a.Score, a.CorrectAnswers)
	}
	if !a.CompletedAt.Equal(first) {
		t.Fatalf("completed_at moved on re-score")
	}
	if a.TimeSpent != 8 {
		t.Fatalf("time spent = %d, want 8", a.TimeSpent)
	}
}

func TestScoreAttempt_ZeroPointsFallback(t *testing.T) {
	g := scoring.NewGrader()
	qz := quiz.Quiz{
		ID: "qz2",
		Questions: []quiz.Question{
			{ID: "q1", Type: quiz.TypeMCQ, Points: 2, CorrectAnswer: quiz.Single("x")},
			{ID: "q2", Type: quiz.TypeMCQ, Points: 3, CorrectAnswer: quiz.Single("y")},
		},
		// TotalPoints left unset; scoring sums the questions itself.
	}
	a := quiz.Attempt{Status: quiz.AttemptInProgress, StartedAt: time.Now(),
		Answers: map[string]quiz.Answer{"q2": quiz.Single("y")}}
	g.ScoreAttempt(&a, qz, time.Now())
	if a.TotalScore != 5 {
		t.Fatalf("total score = %.1f, want 5", a.TotalScore)
	}
}

func TestDetailedResults(t *testing.T) {
	g := scoring.NewGrader()
	qz := sampleQuiz()
	a := quiz.Attempt{
		Answers: map[string]quiz.Answer{
			"q2": quiz.Single("joule"),
		},
	}
	details := g.DetailedResults(a, qz)
	if len(details) != 2 {
		t.Fatalf("want one row per question, got %d", len(details))
	}
	// Rows follow quiz question order, including unanswered questions.
	if details[0].QuestionID != "q1" || details[1].QuestionID != "q2" {
		t.Fatalf("rows out of quiz order: %s, %s", details[0].QuestionID, details[1].QuestionID)
	}
	if details[0].Correct || details[0].Points != 0 {
		t.Fatalf("unanswered question marked correct")
	}
	if !details[0].UserAnswer.IsZero() {
		t.Fatalf("unanswered question has a user answer")
	}
	if !details[1].Correct || details[1].Points != 2 {
		t.Fatalf("q2 should award its 2 points")
	}
	if details[0].Explanation != "Newton's second law." {
		t.Fatalf("explanation missing from breakdown")
	}
}
