package reporting

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/quizforge/quizforge-api/internal/quiz"
)

type WeekBucket struct {
	Week             string    `json:"week"` // "YYYY-WW" (ISO year and week)
	WeekStart        time.Time `json:"week_start"`
	WeekEnd          time.Time `json:"week_end"`
	QuizzesCompleted int       `json:"quizzes_completed"`
	AverageScore     float64   `json:"average_score"`
	TotalTimeSpent   int       `json:"total_time_spent_min"`
}

// WeeklyProgress buckets completed attempts of the last weeks by the ISO
// (year, week) of their completion time, oldest bucket first.
func WeeklyProgress(recs []quiz.AttemptRecord, weeks int, now time.Time) []WeekBucket {
	if weeks <= 0 {
		weeks = 8
	}
	cutoff := now.AddDate(0, 0, -weeks*7)

	type acc struct {
		bucket   WeekBucket
		scoreSum float64
	}
	buckets := map[string]*acc{}
	for _, r := range recs {
		if r.Status != quiz.AttemptCompleted || r.CompletedAt == nil {
			continue
		}
		at := *r.CompletedAt
		if at.Before(cutoff) {
			continue
		}
		year, week := at.ISOWeek()
		key := fmt.Sprintf("%d-%02d", year, week)
		b, ok := buckets[key]
		if !ok {
			b = &acc{bucket: WeekBucket{Week: key, WeekStart: at, WeekEnd: at}}
			buckets[key] = b
		}
		b.bucket.QuizzesCompleted++
		b.scoreSum += r.Score
		b.bucket.TotalTimeSpent += r.TimeSpent
		if at.Before(b.bucket.WeekStart) {
			b.bucket.WeekStart = at
		}
		if at.After(b.bucket.WeekEnd) {
			b.bucket.WeekEnd = at
		}
	}

	out := make([]WeekBucket, 0, len(buckets))
	for _, b := range buckets {
		b.bucket.AverageScore = math.Round(b.scoreSum / float64(b.bucket.QuizzesCompleted))
		out = append(out, b.bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}

// StreakDays counts consecutive calendar days, ending today or yesterday,
// with at least one completed attempt. The walk stops at the first gap of
// more than one day.
func StreakDays(recs []quiz.AttemptRecord, now time.Time) int {
	daySet := map[time.Time]struct{}{}
	for _, r := range recs {
		if r.Status != quiz.AttemptCompleted || r.CompletedAt == nil {
			continue
		}
		daySet[midnight(*r.CompletedAt)] = struct{}{}
	}
	if len(daySet) == 0 {
		return 0
	}
	days := make([]time.Time, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 0
	cursor := midnight(now)
	for _, d := range days {
		diff := daysBetween(d, cursor)
		if diff == 0 || diff == 1 {
			streak++
			cursor = d
			continue
		}
		break
	}
	return streak
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, robust to DST shifts.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
