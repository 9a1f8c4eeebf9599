package scoring

import (
	"math"
	"time"

	"github.com/quizforge/quizforge-api/internal/quiz"
)

// QuestionResult is one row of the per-question breakdown, in quiz order.
type QuestionResult struct {
	QuestionID    string      `json:"question_id"`
	Prompt        string      `json:"question"`
	UserAnswer    quiz.Answer `json:"user_answer"`
	CorrectAnswer quiz.Answer `json:"correct_answer"`
	Correct       bool        `json:"is_correct"`
	Points        float64     `json:"points"` // awarded, 0 when incorrect
	Difficulty    quiz.Difficulty `json:"difficulty"`
	Explanation   string      `json:"explanation,omitempty"`
}

// Performance summarizes a scored attempt. Grade and GPA are derived from
// the question-count percentage, not the point-weighted one.
type Performance struct {
	Score                  float64 `json:"score"`
	TotalScore             float64 `json:"total_score"`
	CorrectAnswers         int     `json:"correct_answers"`
	TotalQuestions         int     `json:"total_questions"`
	Percentage             int     `json:"percentage"`
	Grade                  string  `json:"grade"`
	GPA                    float64 `json:"gpa"`
	TimeSpent              int     `json:"time_spent_min"`
	AverageTimePerQuestion float64 `json:"average_time_per_question"`
}

// Result is the derived output of scoring one attempt. It is recomputed on
// each request, never stored.
type Result struct {
	Attempt         quiz.Attempt     `json:"attempt"`
	Quiz            quiz.Quiz        `json:"quiz"`
	Details         []QuestionResult `json:"detailed_results"`
	Performance     Performance      `json:"performance"`
	Recommendations []string         `json:"recommendations"`
}

// ScoreAttempt computes correctness over the quiz's canonical question order
// and writes the outcome onto the attempt: score fields, completed status,
// and derived time spent. It recomputes from scratch, so re-scoring an
// already-completed attempt overwrites rather than accumulates.
func (g *Grader) ScoreAttempt(a *quiz.Attempt, qz quiz.Quiz, now time.Time) {
	correct := 0
	score := 0.0
	for _, q := range qz.Questions {
		if g.Correct(q, a.Answers[q.ID]) {
			correct++
			score += q.Points
		}
	}
	total := qz.TotalPoints
	if total == 0 {
		for _, q := range qz.Questions {
			total += q.Points
		}
	}

	a.CorrectAnswers = correct
	a.Score = score
	a.TotalScore = total
	a.Status = quiz.AttemptCompleted
	a.IsCompleted = true
	if a.CompletedAt == nil {
		t := now
		a.CompletedAt = &t
	}
	a.TimeSpent = int(math.Round(a.CompletedAt.Sub(a.StartedAt).Minutes()))
}

// DetailedResults builds the per-question breakdown in quiz order.
func (g *Grader) DetailedResults(a quiz.Attempt, qz quiz.Quiz) []QuestionResult {
	out := make([]QuestionResult, 0, len(qz.Questions))
	for _, q := range qz.Questions {
		ans := a.Answers[q.ID]
		ok := g.Correct(q, ans)
		awarded := 0.0
		if ok {
			awarded = q.Points
		}
		out = append(out, QuestionResult{
			QuestionID:    q.ID,
			Prompt:        q.Prompt,
			UserAnswer:    ans,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       ok,
			Points:        awarded,
			Difficulty:    q.Difficulty,
			Explanation:   q.Explanation,
		})
	}
	return out
}

// BuildResult assembles the full result view for a scored attempt.
func (g *Grader) BuildResult(a quiz.Attempt, qz quiz.Quiz) Result {
	details := g.DetailedResults(a, qz)
	correct := 0
	for _, d := range details {
		if d.Correct {
			correct++
		}
	}
	pct := Percent(float64(correct), float64(len(details)))
	grade, gpa := GradeFor(pct)

	avgTime := 0.0
	if n := len(qz.Questions); n > 0 {
		avgTime = math.Round(float64(a.TimeSpent)/float64(n)*100) / 100
	}

	return Result{
		Attempt: a,
		Quiz:    qz,
		Details: details,
		Performance: Performance{
			Score:                  a.Score,
			TotalScore:             a.TotalScore,
			CorrectAnswers:         correct,
			TotalQuestions:         len(details),
			Percentage:             pct,
			Grade:                  grade,
			GPA:                    gpa,
			TimeSpent:              a.TimeSpent,
			AverageTimePerQuestion: avgTime,
		},
		Recommendations: Recommendations(details, qz),
	}
}
