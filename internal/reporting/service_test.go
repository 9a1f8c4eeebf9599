package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/quizforge/quizforge-api/internal/quiz"
	"github.com/quizforge/quizforge-api/internal/reporting"
)

func seedHistory(t *testing.T) quiz.Store {
	t.Helper()
	store := quiz.NewInMemoryStore()
	ctx := context.Background()

	put := func(q quiz.Quiz) {
		if err := store.PutQuiz(ctx, q); err != nil {
			t.Fatalf("put quiz: %v", err)
		}
	}
	put(quiz.Quiz{ID: "qz1", Title: "Algebra", Subject: "Math",
		Difficulty: quiz.DifficultyEasy, TotalPoints: 10, Status: quiz.QuizPublished})
	put(quiz.Quiz{ID: "qz2", Title: "Optics", Subject: "Physics",
		Difficulty: quiz.DifficultyHard, TotalPoints: 10, Status: quiz.QuizPublished})

	attempts := []quiz.AttemptRecord{
		rec("u1", "qz1", "Math", 8, 10, base),
		rec("u1", "qz2", "Physics", 6, 10, base.AddDate(0, 0, -1)),
		rec("u1", "qz1", "Math", 9, 10, base.AddDate(0, 0, -60)),
		rec("u2", "qz1", "Math", 10, 10, base),
		inProgress("u1", "qz2", "Physics", base.Add(time.Hour)),
	}
	for _, r := range attempts {
		if err := store.PutAttempt(ctx, r.Attempt); err != nil {
			t.Fatalf("put attempt: %v", err)
		}
	}
	return store
}

func TestUserStats_TimeframeFilter(t *testing.T) {
	store := seedHistory(t)
	svc := reporting.NewService(store, quiz.ClockFunc(func() time.Time { return base.Add(2 * time.Hour) }))
	ctx := context.Background()

	all, err := svc.UserStats(ctx, "u1", reporting.StatsFilters{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if all.TotalAttempts != 4 {
		t.Fatalf("all-time attempts = %d, want 4", all.TotalAttempts)
	}

	week, err := svc.UserStats(ctx, "u1", reporting.StatsFilters{Timeframe: "week"})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	// The 60-day-old attempt falls outside the week window.
	if week.TotalAttempts != 3 {
		t.Fatalf("week attempts = %d, want 3", week.TotalAttempts)
	}

	math, err := svc.UserStats(ctx, "u1", reporting.StatsFilters{Subject: "Math"})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if math.TotalAttempts != 2 || math.CompletedQuizzes != 2 {
		t.Fatalf("math attempts = %d/%d, want 2/2", math.TotalAttempts, math.CompletedQuizzes)
	}
}

func TestDashboard(t *testing.T) {
	store := seedHistory(t)
	svc := reporting.NewService(store, quiz.ClockFunc(func() time.Time { return base.Add(2 * time.Hour) }))

	d, err := svc.Dashboard(context.Background(), "u1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.TotalAttempts != 4 || d.CompletedQuizzes != 3 {
		t.Fatalf("stats = %d/%d, want 4/3", d.TotalAttempts, d.CompletedQuizzes)
	}
	if len(d.RecentActivity) != 3 {
		t.Fatalf("recent = %d, want 3 completed", len(d.RecentActivity))
	}
	// Completed today and yesterday.
	if d.StreakDays != 2 {
		t.Fatalf("streak = %d, want 2", d.StreakDays)
	}
	// u2 averages 10, u1 averages below that.
	if d.Rank != 2 {
		t.Fatalf("rank = %d, want 2", d.Rank)
	}
	if len(d.SubjectPerformance) != 2 {
		t.Fatalf("subjects = %d, want 2", len(d.SubjectPerformance))
	}
	if len(d.Achievements) == 0 {
		t.Fatalf("expected at least first_quiz unlocked")
	}
}

func TestLeaderboardFor(t *testing.T) {
	store := seedHistory(t)
	svc := reporting.NewService(store, nil)

	board, err := svc.LeaderboardFor(context.Background(), "qz1", 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("entries = %d, want 2", len(board))
	}
	if board[0].UserID != "u2" {
		t.Fatalf("top = %s, want u2", board[0].UserID)
	}
}

func TestAllAttempts_Pagination(t *testing.T) {
	store := seedHistory(t)
	svc := reporting.NewService(store, nil)
	ctx := context.Background()

	page1, err := svc.AllAttempts(ctx, "u1", reporting.PageFilters{Limit: 2, Page: 1})
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if page1.TotalCount != 4 || page1.TotalPages != 2 {
		t.Fatalf("page meta = %+v", page1)
	}
	if len(page1.Attempts) != 2 || !page1.HasNextPage || page1.HasPrevPage {
		t.Fatalf("page 1 = %+v", page1)
	}
	if page1.CompletedCount != 3 || page1.InProgressCount != 1 {
		t.Fatalf("status counts = %d/%d, want 3/1", page1.CompletedCount, page1.InProgressCount)
	}

	page2, err := svc.AllAttempts(ctx, "u1", reporting.PageFilters{Limit: 2, Page: 2})
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(page2.Attempts) != 2 || page2.HasNextPage || !page2.HasPrevPage {
		t.Fatalf("page 2 = %+v", page2)
	}

	completed, err := svc.AllAttempts(ctx, "u1", reporting.PageFilters{Status: quiz.AttemptCompleted})
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if completed.TotalCount != 3 {
		t.Fatalf("completed total = %d, want 3", completed.TotalCount)
	}
}
