package reporting

import (
	"math"
	"sort"
	"time"

	"github.com/quizforge/quizforge-api/internal/quiz"
	"github.com/quizforge/quizforge-api/internal/scoring"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

type SubjectStats struct {
	Subject           string    `json:"subject"`
	TotalAttempts     int       `json:"total_attempts"`
	CompletedQuizzes  int       `json:"completed_quizzes"`
	AverageScore      float64   `json:"average_score"`
	AveragePercentage int       `json:"average_percentage"`
	BestScore         float64   `json:"best_score"`
	TotalTimeSpent    int       `json:"total_time_spent_min"`
	LastAttemptDate   time.Time `json:"last_attempt_date"`
	ImprovementTrend  Trend     `json:"improvement_trend"`
}

// SubjectPerformance groups attempts by quiz subject. The improvement trend
// compares the mean of the last three completed scores against the first
// three; fewer than three scored attempts reads as stable.
func SubjectPerformance(recs []quiz.AttemptRecord) []SubjectStats {
	type acc struct {
		stats    SubjectStats
		scoreSum float64
		pctSum   float64
		scored   []scoredAt
	}
	groups := map[string]*acc{}
	for _, r := range recs {
		if r.Quiz.Subject == "" {
			continue
		}
		g, ok := groups[r.Quiz.Subject]
		if !ok {
			g = &acc{stats: SubjectStats{Subject: r.Quiz.Subject, ImprovementTrend: TrendStable}}
			groups[r.Quiz.Subject] = g
		}
		g.stats.TotalAttempts++
		g.stats.TotalTimeSpent += r.TimeSpent
		if r.UpdatedAt.After(g.stats.LastAttemptDate) {
			g.stats.LastAttemptDate = r.UpdatedAt
		}
		if r.Status != quiz.AttemptCompleted {
			continue
		}
		g.stats.CompletedQuizzes++
		g.scoreSum += r.Score
		g.pctSum += float64(scoring.Percent(r.Score, r.TotalScore))
		if r.Score > g.stats.BestScore {
			g.stats.BestScore = r.Score
		}
		at := r.UpdatedAt
		if r.CompletedAt != nil {
			at = *r.CompletedAt
		}
		g.scored = append(g.scored, scoredAt{score: r.Score, at: at})
	}

	out := make([]SubjectStats, 0, len(groups))
	for _, g := range groups {
		if n := g.stats.CompletedQuizzes; n > 0 {
			g.stats.AverageScore = math.Round(g.scoreSum / float64(n))
			g.stats.AveragePercentage = int(math.Round(g.pctSum / float64(n)))
		}
		g.stats.ImprovementTrend = trend(g.scored)
		out = append(out, g.stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAttempts != out[j].TotalAttempts {
			return out[i].TotalAttempts > out[j].TotalAttempts
		}
		return out[i].Subject < out[j].Subject
	})
	return out
}

type scoredAt struct {
	score float64
	at    time.Time
}

func trend(scored []scoredAt) Trend {
	if len(scored) < 3 {
		return TrendStable
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].at.Before(scored[j].at) })
	earlier := mean(scored[:3])
	recent := mean(scored[len(scored)-3:])
	switch {
	case recent > earlier+5:
		return TrendImproving
	case recent < earlier-5:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(s []scoredAt) float64 {
	sum := 0.0
	for _, v := range s {
		sum += v.score
	}
	return sum / float64(len(s))
}

type DifficultyStats struct {
	Attempts          int     `json:"attempts"`
	AverageScore      float64 `json:"average_score"`
	AveragePercentage int     `json:"average_percentage"`
}

type DifficultyBreakdown struct {
	Easy   DifficultyStats `json:"easy"`
	Medium DifficultyStats `json:"medium"`
	Hard   DifficultyStats `json:"hard"`
}

// BreakdownByDifficulty groups completed attempts by their quiz's
// difficulty tier.
func BreakdownByDifficulty(recs []quiz.AttemptRecord) DifficultyBreakdown {
	type acc struct {
		n        int
		scoreSum float64
		pctSum   float64
	}
	groups := map[quiz.Difficulty]*acc{}
	for _, r := range recs {
		if r.Status != quiz.AttemptCompleted {
			continue
		}
		g, ok := groups[r.Quiz.Difficulty]
		if !ok {
			g = &acc{}
			groups[r.Quiz.Difficulty] = g
		}
		g.n++
		g.scoreSum += r.Score
		g.pctSum += float64(scoring.Percent(r.Score, r.TotalScore))
	}
	reduce := func(d quiz.Difficulty) DifficultyStats {
		g, ok := groups[d]
		if !ok || g.n == 0 {
			return DifficultyStats{}
		}
		return DifficultyStats{
			Attempts:          g.n,
			AverageScore:      math.Round(g.scoreSum / float64(g.n)),
			AveragePercentage: int(math.Round(g.pctSum / float64(g.n))),
		}
	}
	return DifficultyBreakdown{
		Easy:   reduce(quiz.DifficultyEasy),
		Medium: reduce(quiz.DifficultyMedium),
		Hard:   reduce(quiz.DifficultyHard),
	}
}
