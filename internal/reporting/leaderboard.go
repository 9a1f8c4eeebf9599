package reporting

import (
	"math"
	"sort"

	"github.com/quizforge/quizforge-api/internal/quiz"
)

type LeaderboardEntry struct {
	UserID         string  `json:"user_id"`
	BestScore      float64 `json:"best_score"`
	TotalAttempts  int     `json:"total_attempts"`
	AverageScore   float64 `json:"average_score"`
	TotalTimeSpent int     `json:"total_time_spent_min"`
}

// Leaderboard groups completed attempts by user and ranks by best score,
// ties broken by higher average score.
func Leaderboard(recs []quiz.AttemptRecord, limit int) []LeaderboardEntry {
	if limit <= 0 {
		limit = 10
	}
	type acc struct {
		entry    LeaderboardEntry
		scoreSum float64
	}
	byUser := map[string]*acc{}
	for _, r := range recs {
		if r.Status != quiz.AttemptCompleted {
			continue
		}
		g, ok := byUser[r.UserID]
		if !ok {
			g = &acc{entry: LeaderboardEntry{UserID: r.UserID}}
			byUser[r.UserID] = g
		}
		g.entry.TotalAttempts++
		g.scoreSum += r.Score
		g.entry.TotalTimeSpent += r.TimeSpent
		if r.Score > g.entry.BestScore {
			g.entry.BestScore = r.Score
		}
	}

	out := make([]LeaderboardEntry, 0, len(byUser))
	for _, g := range byUser {
		g.entry.BestScore = math.Round(g.entry.BestScore)
		g.entry.AverageScore = math.Round(g.scoreSum/float64(g.entry.TotalAttempts)*10) / 10
		out = append(out, g.entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BestScore != out[j].BestScore {
			return out[i].BestScore > out[j].BestScore
		}
		if out[i].AverageScore != out[j].AverageScore {
			return out[i].AverageScore > out[j].AverageScore
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Rank returns the user's 1-based position when every user is ordered by
// average completed score, ties broken by completed count. A user with no
// completed attempts ranks one past the end.
func Rank(recs []quiz.AttemptRecord, userID string) int {
	type acc struct {
		userID   string
		scoreSum float64
		n        int
	}
	byUser := map[string]*acc{}
	for _, r := range recs {
		if r.Status != quiz.AttemptCompleted {
			continue
		}
		g, ok := byUser[r.UserID]
		if !ok {
			g = &acc{userID: r.UserID}
			byUser[r.UserID] = g
		}
		g.scoreSum += r.Score
		g.n++
	}
	users := make([]*acc, 0, len(byUser))
	for _, g := range byUser {
		users = append(users, g)
	}
	sort.Slice(users, func(i, j int) bool {
		ai := users[i].scoreSum / float64(users[i].n)
		aj := users[j].scoreSum / float64(users[j].n)
		if ai != aj {
			return ai > aj
		}
		if users[i].n != users[j].n {
			return users[i].n > users[j].n
		}
		return users[i].userID < users[j].userID
	})
	for i, g := range users {
		if g.userID == userID {
			return i + 1
		}
	}
	return len(users) + 1
}
