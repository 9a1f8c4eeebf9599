package reporting_test

import (
	"testing"
	"time"

	"github.com/quizforge/quizforge-api/internal/quiz"
	"github.com/quizforge/quizforge-api/internal/reporting"
)

func withDifficulty(r quiz.AttemptRecord, d quiz.Difficulty) quiz.AttemptRecord {
	r.Quiz.Difficulty = d
	return r
}

func TestSubjectPerformance(t *testing.T) {
	recs := []quiz.AttemptRecord{
		rec("u1", "qz1", "Math", 8, 10, base),
		rec("u1", "qz2", "Math", 6, 10, base.Add(time.Hour)),
		inProgress("u1", "qz3", "Math", base.Add(2*time.Hour)),
		rec("u1", "qz4", "Physics", 9, 10, base),
	}
	subjects := reporting.SubjectPerformance(recs)
	if len(subjects) != 2 {
		t.Fatalf("subjects = %d, want 2", len(subjects))
	}
	// Most attempted subject first.
	if subjects[0].Subject != "Math" {
		t.Fatalf("first subject = %s, want Math", subjects[0].Subject)
	}
	m := subjects[0]
	if m.TotalAttempts != 3 || m.CompletedQuizzes != 2 {
		t.Fatalf("math counts = %d/%d, want 3/2", m.TotalAttempts, m.CompletedQuizzes)
	}
	if m.AverageScore != 7 || m.AveragePercentage != 70 {
		t.Fatalf("math averages = %.1f/%d, want 7/70", m.AverageScore, m.AveragePercentage)
	}
	if m.BestScore != 8 {
		t.Fatalf("math best = %.1f, want 8", m.BestScore)
	}
	if m.ImprovementTrend != reporting.TrendStable {
		t.Fatalf("two scored attempts should read stable, got %s", m.ImprovementTrend)
	}
}

func TestSubjectPerformance_Trend(t *testing.T) {
	mk := func(scores ...float64) []quiz.AttemptRecord {
		recs := make([]quiz.AttemptRecord, 0, len(scores))
		for i, s := range scores {
			recs = append(recs, rec("u1", "qz1", "Math", s, 100, base.Add(time.Duration(i)*time.Hour)))
		}
		return recs
	}

	cases := []struct {
		name   string
		scores []float64
		want   reporting.Trend
	}{
		{"improving", []float64{50, 55, 60, 70, 75, 80}, reporting.TrendImproving},
		{"declining", []float64{80, 75, 70, 60, 55, 50}, reporting.TrendDeclining},
		{"within band is stable", []float64{70, 72, 71, 73, 70, 72}, reporting.TrendStable},
		{"too few is stable", []float64{10, 90}, reporting.TrendStable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			subjects := reporting.SubjectPerformance(mk(tc.scores...))
			if got := subjects[0].ImprovementTrend; got != tc.want {
				t.Fatalf("trend = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestBreakdownByDifficulty(t *testing.T) {
	recs := []quiz.AttemptRecord{
		withDifficulty(rec("u1", "qz1", "Math", 9, 10, base), quiz.DifficultyEasy),
		withDifficulty(rec("u1", "qz2", "Math", 7, 10, base), quiz.DifficultyEasy),
		withDifficulty(rec("u1", "qz3", "Math", 5, 10, base), quiz.DifficultyHard),
		withDifficulty(inProgress("u1", "qz4", "Math", base), quiz.DifficultyMedium),
	}
	bd := reporting.BreakdownByDifficulty(recs)

	if bd.Easy.Attempts != 2 || bd.Easy.AverageScore != 8 || bd.Easy.AveragePercentage != 80 {
		t.Fatalf("easy = %+v", bd.Easy)
	}
	if bd.Hard.Attempts != 1 || bd.Hard.AveragePercentage != 50 {
		t.Fatalf("hard = %+v", bd.Hard)
	}
	// The in-progress medium attempt contributes nothing.
	if bd.Medium.Attempts != 0 {
		t.Fatalf("medium = %+v, want zero", bd.Medium)
	}
}
