package scoring

import (
	"fmt"

	"github.com/quizforge/quizforge-api/internal/quiz"
)

// Recommendations derives short study guidance from a scored breakdown.
// Deterministic for identical inputs; no randomness, no I/O.
func Recommendations(details []QuestionResult, qz quiz.Quiz) []string {
	var recs []string
	incorrect := 0
	for _, d := range details {
		if !d.Correct {
			incorrect++
		}
	}
	pct := Percent(float64(len(details)-incorrect), float64(len(details)))

	switch {
	case pct < 60:
		recs = append(recs,
			fmt.Sprintf("Consider reviewing the basics of %s - %s", qz.Subject, qz.Topic),
			"Practice more questions on this topic",
			"Focus on understanding the fundamental concepts")
	case pct < 80:
		recs = append(recs,
			"Good job! Focus on understanding the concepts you missed")
	case pct < 95:
		recs = append(recs,
			"Excellent performance! You have a strong grasp of the topic")
	default:
		recs = append(recs,
			"Outstanding! You have mastered this topic",
			"Consider exploring more advanced topics")
	}

	if incorrect > 0 {
		recs = append(recs, "Review the explanations for incorrect answers")
		if d := mostMissedDifficulty(details); d != "" {
			recs = append(recs, fmt.Sprintf("Focus more on %s level questions", d))
		}
	}
	return recs
}

// mostMissedDifficulty picks the difficulty tier with the most incorrect
// answers. Ties break toward the tier first encountered in quiz order.
func mostMissedDifficulty(details []QuestionResult) quiz.Difficulty {
	counts := map[quiz.Difficulty]int{}
	var order []quiz.Difficulty
	for _, d := range details {
		if d.Correct || d.Difficulty == "" {
			continue
		}
		if _, seen := counts[d.Difficulty]; !seen {
			order = append(order, d.Difficulty)
		}
		counts[d.Difficulty]++
	}
	var best quiz.Difficulty
	for _, d := range order {
		if best == "" || counts[d] > counts[best] {
			best = d
		}
	}
	return best
}
