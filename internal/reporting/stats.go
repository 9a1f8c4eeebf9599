// Package reporting rolls attempt histories into dashboards, stats, and
// leaderboards. Every computation here is a read-only reduction over
// attempt records joined with quiz metadata; empty input reduces to a
// zero-valued result, not an error.
package reporting

import (
	"math"
	"time"

	"github.com/quizforge/quizforge-api/internal/quiz"
	"github.com/quizforge/quizforge-api/internal/scoring"
)

type Stats struct {
	TotalQuizzes      int       `json:"total_quizzes"` // distinct quizzes attempted
	TotalAttempts     int       `json:"total_attempts"`
	CompletedQuizzes  int       `json:"completed_quizzes"`
	AverageScore      float64   `json:"average_score"`
	AveragePercentage int       `json:"average_percentage"`
	BestScore         float64   `json:"best_score"`
	BestPercentage    int       `json:"best_percentage"`
	TotalTimeSpent    int       `json:"total_time_spent_min"`
	FavoriteSubjects  []string  `json:"favorite_subjects"`
	LastActivityAt    time.Time `json:"last_activity_at"`
}

// BasicStats reduces a user's attempts to headline numbers. Averages and
// bests only consider completed attempts; counts and time cover everything.
func BasicStats(recs []quiz.AttemptRecord) Stats {
	var st Stats
	quizzes := map[string]struct{}{}
	subjectSeen := map[string]struct{}{}
	var scoreSum, pctSum float64
	completed := 0

	for _, r := range recs {
		st.TotalAttempts++
		st.TotalTimeSpent += r.TimeSpent
		quizzes[r.QuizID] = struct{}{}
		if _, ok := subjectSeen[r.Quiz.Subject]; !ok && r.Quiz.Subject != "" {
			subjectSeen[r.Quiz.Subject] = struct{}{}
			st.FavoriteSubjects = append(st.FavoriteSubjects, r.Quiz.Subject)
		}
		if r.UpdatedAt.After(st.LastActivityAt) {
			st.LastActivityAt = r.UpdatedAt
		}
		if r.Status != quiz.AttemptCompleted {
			continue
		}
		completed++
		scoreSum += r.Score
		pct := scoring.Percent(r.Score, r.TotalScore)
		pctSum += float64(pct)
		if r.Score > st.BestScore {
			st.BestScore = r.Score
		}
		if pct > st.BestPercentage {
			st.BestPercentage = pct
		}
	}

	st.TotalQuizzes = len(quizzes)
	st.CompletedQuizzes = completed
	if completed > 0 {
		st.AverageScore = math.Round(scoreSum / float64(completed))
		st.AveragePercentage = int(math.Round(pctSum / float64(completed)))
	}
	return st
}

// ActivityItem is one stored attempt annotated with grade metrics
// recomputed from its persisted score, not re-scored against questions.
type ActivityItem struct {
	AttemptID   string             `json:"attempt_id"`
	QuizID      string             `json:"quiz_id"`
	QuizTitle   string             `json:"quiz_title"`
	Subject     string             `json:"subject"`
	Topic       string             `json:"topic,omitempty"`
	Score       float64            `json:"score"`
	TotalScore  float64            `json:"total_score"`
	Percentage  int                `json:"percentage"`
	Grade       string             `json:"grade"`
	GPA         float64            `json:"gpa"`
	TimeSpent   int                `json:"time_spent_min"`
	Difficulty  quiz.Difficulty    `json:"difficulty"`
	CompletedAt time.Time          `json:"completed_at"`
	Status      quiz.AttemptStatus `json:"status"`
}

// RecentActivity returns the last limit completed attempts, newest update
// first. Records are expected pre-sorted by update time descending.
func RecentActivity(recs []quiz.AttemptRecord, limit int) []ActivityItem {
	if limit <= 0 {
		limit = 10
	}
	out := []ActivityItem{}
	for _, r := range recs {
		if r.Status != quiz.AttemptCompleted {
			continue
		}
		out = append(out, summarize(r))
		if len(out) == limit {
			break
		}
	}
	return out
}

func summarize(r quiz.AttemptRecord) ActivityItem {
	pct := scoring.Percent(r.Score, r.TotalScore)
	grade, gpa := scoring.GradeFor(pct)
	completedAt := r.UpdatedAt
	if r.CompletedAt != nil {
		completedAt = *r.CompletedAt
	}
	return ActivityItem{
		AttemptID:   r.ID,
		QuizID:      r.Quiz.ID,
		QuizTitle:   r.Quiz.Title,
		Subject:     r.Quiz.Subject,
		Topic:       r.Quiz.Topic,
		Score:       r.Score,
		TotalScore:  r.TotalScore,
		Percentage:  pct,
		Grade:       grade,
		GPA:         gpa,
		TimeSpent:   r.TimeSpent,
		Difficulty:  r.Quiz.Difficulty,
		CompletedAt: completedAt,
		Status:      r.Status,
	}
}

type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

// Achievements evaluates the unlock rules against current stats. Not
// persisted as history; recomputed on each call.
func Achievements(st Stats, now time.Time) []Achievement {
	var out []Achievement
	if st.CompletedQuizzes >= 1 {
		out = append(out, Achievement{
			ID: "first_quiz", Title: "First Steps",
			Description: "Completed your first quiz",
			Category:    "milestone", UnlockedAt: now,
		})
	}
	if st.CompletedQuizzes >= 10 {
		out = append(out, Achievement{
			ID: "quiz_master", Title: "Quiz Master",
			Description: "Completed 10 quizzes",
			Category:    "milestone", UnlockedAt: now,
		})
	}
	if st.BestPercentage == 100 {
		out = append(out, Achievement{
			ID: "perfect_score", Title: "Perfect Score",
			Description: "Achieved 100% on a quiz",
			Category:    "performance", UnlockedAt: now,
		})
	}
	if st.AveragePercentage >= 80 {
		out = append(out, Achievement{
			ID: "high_achiever", Title: "High Achiever",
			Description: "Maintain 80%+ average score",
			Category:    "performance", UnlockedAt: now,
		})
	}
	return out
}
