package reporting

import (
	"context"
	"time"

	"github.com/quizforge/quizforge-api/internal/quiz"
)

// Service pulls attempt records from the store and runs the reductions.
type Service struct {
	store quiz.Store
	clock quiz.Clock
}

func NewService(store quiz.Store, clock quiz.Clock) *Service {
	if clock == nil {
		clock = quiz.SystemClock()
	}
	return &Service{store: store, clock: clock}
}

// StatsFilters narrow which attempts feed into user stats.
type StatsFilters struct {
	Timeframe  string // week|month|year|all
	Subject    string
	Difficulty quiz.Difficulty
}

func (s *Service) UserStats(ctx context.Context, userID string, f StatsFilters) (Stats, error) {
	filter := quiz.AttemptFilter{
		UserID:     userID,
		Subject:    f.Subject,
		Difficulty: f.Difficulty,
	}
	now := s.clock.Now()
	switch f.Timeframe {
	case "week":
		filter.From = now.AddDate(0, 0, -7)
	case "month":
		filter.From = now.AddDate(0, 0, -30)
	case "year":
		filter.From = now.AddDate(0, 0, -365)
	}
	recs, err := s.store.ListAttempts(ctx, filter)
	if err != nil {
		return Stats{}, err
	}
	return BasicStats(recs), nil
}

// Dashboard is the aggregate view returned in one call.
type Dashboard struct {
	Stats
	RecentActivity      []ActivityItem      `json:"recent_activity"`
	WeeklyProgress      []WeekBucket        `json:"weekly_progress"`
	SubjectPerformance  []SubjectStats      `json:"subject_performance"`
	DifficultyBreakdown DifficultyBreakdown `json:"difficulty_breakdown"`
	Achievements        []Achievement       `json:"achievements"`
	StreakDays          int                 `json:"streak_days"`
	Rank                int                 `json:"rank"`
}

func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	recs, err := s.store.ListAttempts(ctx, quiz.AttemptFilter{UserID: userID})
	if err != nil {
		return Dashboard{}, err
	}
	// Rank is platform-wide, so it needs everyone's completed attempts.
	all, err := s.store.ListAttempts(ctx, quiz.AttemptFilter{Status: quiz.AttemptCompleted})
	if err != nil {
		return Dashboard{}, err
	}

	now := s.clock.Now()
	st := BasicStats(recs)
	return Dashboard{
		Stats:               st,
		RecentActivity:      RecentActivity(recs, 10),
		WeeklyProgress:      WeeklyProgress(recs, 8, now),
		SubjectPerformance:  SubjectPerformance(recs),
		DifficultyBreakdown: BreakdownByDifficulty(recs),
		Achievements:        Achievements(st, now),
		StreakDays:          StreakDays(recs, now),
		Rank:                Rank(all, userID),
	}, nil
}

// LeaderboardFor ranks users by completed attempts, optionally scoped to
// one quiz.
func (s *Service) LeaderboardFor(ctx context.Context, quizID string, limit int) ([]LeaderboardEntry, error) {
	recs, err := s.store.ListAttempts(ctx, quiz.AttemptFilter{
		QuizID: quizID,
		Status: quiz.AttemptCompleted,
	})
	if err != nil {
		return nil, err
	}
	return Leaderboard(recs, limit), nil
}

// PageFilters select and paginate a user's attempt history.
type PageFilters struct {
	From, To   time.Time
	Subject    string
	Difficulty quiz.Difficulty
	Status     quiz.AttemptStatus
	Limit      int
	Page       int
}

type AttemptsPage struct {
	Attempts        []ActivityItem `json:"attempts"`
	TotalCount      int            `json:"total_count"`
	CompletedCount  int            `json:"completed_count"`
	InProgressCount int            `json:"in_progress_count"`
	AbandonedCount  int            `json:"abandoned_count"`
	Page            int            `json:"page"`
	Limit           int            `json:"limit"`
	TotalPages      int            `json:"total_pages"`
	HasNextPage     bool           `json:"has_next_page"`
	HasPrevPage     bool           `json:"has_prev_page"`
}

// AllAttempts lists a user's attempts (any status) with filters, each
// annotated from its stored score, plus per-status counts.
func (s *Service) AllAttempts(ctx context.Context, userID string, f PageFilters) (AttemptsPage, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	filter := quiz.AttemptFilter{
		UserID:     userID,
		Status:     f.Status,
		Subject:    f.Subject,
		Difficulty: f.Difficulty,
		From:       f.From,
		To:         f.To,
	}
	recs, err := s.store.ListAttempts(ctx, filter)
	if err != nil {
		return AttemptsPage{}, err
	}
	total := len(recs)
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	items := make([]ActivityItem, 0, end-start)
	for _, r := range recs[start:end] {
		items = append(items, summarize(r))
	}

	counts, err := s.store.CountAttemptsByStatus(ctx, userID)
	if err != nil {
		return AttemptsPage{}, err
	}
	totalPages := (total + f.Limit - 1) / f.Limit
	return AttemptsPage{
		Attempts:        items,
		TotalCount:      total,
		CompletedCount:  counts[quiz.AttemptCompleted],
		InProgressCount: counts[quiz.AttemptInProgress],
		AbandonedCount:  counts[quiz.AttemptAbandoned],
		Page:            f.Page,
		Limit:           f.Limit,
		TotalPages:      totalPages,
		HasNextPage:     f.Page < totalPages,
		HasPrevPage:     f.Page > 1,
	}, nil
}
