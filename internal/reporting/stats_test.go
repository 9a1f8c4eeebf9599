package reporting_test

import (
	"testing"
	"time"

	"github.com/quizforge/quizforge-api/internal/quiz"
	"github.com/quizforge/quizforge-api/internal/reporting"
)

var base = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// rec builds a completed attempt record finished at the given time.
func rec(userID, quizID, subject string, score, total float64, at time.Time) quiz.AttemptRecord {
	completed := at
	return quiz.AttemptRecord{
		Attempt: quiz.Attempt{
			ID:          userID + "-" + quizID + "-" + at.Format("20060102150405"),
			QuizID:      quizID,
			UserID:      userID,
			Status:      quiz.AttemptCompleted,
			Score:       score,
			TotalScore:  total,
			TimeSpent:   10,
			IsCompleted: true,
			StartedAt:   at.Add(-10 * time.Minute),
			CompletedAt: &completed,
			UpdatedAt:   at,
		},
		Quiz: quiz.QuizMeta{ID: quizID, Title: "Quiz " + quizID, Subject: subject,
			Difficulty: quiz.DifficultyMedium, TotalPoints: total},
	}
}

func inProgress(userID, quizID, subject string, at time.Time) quiz.AttemptRecord {
	r := rec(userID, quizID, subject, 0, 0, at)
	r.Status = quiz.AttemptInProgress
	r.IsCompleted = false
	r.CompletedAt = nil
	return r
}

func TestBasicStats_Empty(t *testing.T) {
	st := reporting.BasicStats(nil)
	if st.TotalAttempts != 0 || st.AverageScore != 0 || st.BestPercentage != 0 {
		t.Fatalf("empty input should reduce to zeros: %+v", st)
	}
	if !st.LastActivityAt.IsZero() {
		t.Fatalf("no activity should leave last activity zero")
	}
}

func TestBasicStats(t *testing.T) {
	recs := []quiz.AttemptRecord{
		rec("u1", "qz1", "Math", 8, 10, base),
		rec("u1", "qz2", "Physics", 5, 10, base.Add(time.Hour)),
		rec("u1", "qz1", "Math", 10, 10, base.Add(2*time.Hour)),
		inProgress("u1", "qz3", "Math", base.Add(3*time.Hour)),
	}
	st := reporting.BasicStats(recs)

	if st.TotalAttempts != 4 || st.CompletedQuizzes != 3 {
		t.Fatalf("counts = %d/%d, want 4 attempts 3 completed", st.TotalAttempts, st.CompletedQuizzes)
	}
	if st.TotalQuizzes != 3 {
		t.Fatalf("distinct quizzes = %d, want 3", st.TotalQuizzes)
	}
	// (8+5+10)/3 rounds to 8; incomplete attempts stay out of averages.
	if st.AverageScore != 8 {
		t.Fatalf("average score = %.1f, want 8", st.AverageScore)
	}
	// (80+50+100)/3 rounds to 77.
	if st.AveragePercentage != 77 {
		t.Fatalf("average percentage = %d, want 77", st.AveragePercentage)
	}
	if st.BestScore != 10 || st.BestPercentage != 100 {
		t.Fatalf("bests = %.1f/%d, want 10/100", st.BestScore, st.BestPercentage)
	}
	if st.TotalTimeSpent != 40 {
		t.Fatalf("time spent = %d, want 40", st.TotalTimeSpent)
	}
	if len(st.FavoriteSubjects) != 2 || st.FavoriteSubjects[0] != "Math" {
		t.Fatalf("subjects = %v, want [Math Physics]", st.FavoriteSubjects)
	}
	if !st.LastActivityAt.Equal(base.Add(3 * time.Hour)) {
		t.Fatalf("last activity = %v", st.LastActivityAt)
	}
}

func TestRecentActivity(t *testing.T) {
	recs := []quiz.AttemptRecord{
		rec("u1", "qz3", "Math", 9, 10, base.Add(2*time.Hour)),
		inProgress("u1", "qz4", "Math", base.Add(time.Hour)),
		rec("u1", "qz1", "Math", 4, 10, base),
	}
	items := reporting.RecentActivity(recs, 10)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 (in-progress excluded)", len(items))
	}
	if items[0].QuizID != "qz3" {
		t.Fatalf("newest first, got %s", items[0].QuizID)
	}
	if items[0].Percentage != 90 || items[0].Grade != "A+" {
		t.Fatalf("item grades off: %+v", items[0])
	}
	if items[1].Percentage != 40 || items[1].Grade != "D" {
		t.Fatalf("item grades off: %+v", items[1])
	}

	if got := reporting.RecentActivity(recs, 1); len(got) != 1 {
		t.Fatalf("limit not applied: %d", len(got))
	}
}

func TestAchievements(t *testing.T) {
	now := base

	if got := reporting.Achievements(reporting.Stats{}, now); len(got) != 0 {
		t.Fatalf("no achievements on empty stats, got %v", got)
	}

	one := reporting.Achievements(reporting.Stats{CompletedQuizzes: 1, AveragePercentage: 50}, now)
	if len(one) != 1 || one[0].ID != "first_quiz" {
		t.Fatalf("first completion should unlock first_quiz only, got %v", one)
	}

	ids := map[string]bool{}
	for _, a := range reporting.Achievements(reporting.Stats{
		CompletedQuizzes:  12,
		BestPercentage:    100,
		AveragePercentage: 85,
	}, now) {
		ids[a.ID] = true
	}
	for _, want := range []string{"first_quiz", "quiz_master", "perfect_score", "high_achiever"} {
		if !ids[want] {
			t.Fatalf("missing achievement %s in %v", want, ids)
		}
	}
}
