// Package scoring decides correctness and derives performance metrics for a
// completed attempt. It is pure computation: no I/O, no store access.
package scoring

import (
	"strings"

	"github.com/quizforge/quizforge-api/internal/quiz"
)

// Strategy decides whether a submitted answer is correct for one question.
type Strategy interface {
	Correct(q quiz.Question, submitted quiz.Answer) bool
}

// Grader routes by question type to the matching Strategy.
type Grader struct {
	strategies map[quiz.QuestionType]Strategy
}

// NewGrader installs the built-in strategies.
func NewGrader() *Grader {
	exact := exactMatchStrategy{}
	return &Grader{
		strategies: map[quiz.QuestionType]Strategy{
			quiz.TypeMCQ:            exact,
			quiz.TypeTrueFalse:      exact,
			quiz.TypeShortAnswer:    exact,
			quiz.TypeMixed:          exact,
			quiz.TypeMultipleSelect: setMatchStrategy{},
		},
	}
}

// Correct reports whether the submitted answer matches the question's key.
// A missing answer is never correct.
func (g *Grader) Correct(q quiz.Question, submitted quiz.Answer) bool {
	if submitted.IsZero() {
		return false
	}
	s, ok := g.strategies[q.Type]
	if !ok {
		s = exactMatchStrategy{}
	}
	return s.Correct(q, submitted)
}

// exactMatchStrategy compares single values, case-folded and trimmed.
type exactMatchStrategy struct{}

func (exactMatchStrategy) Correct(q quiz.Question, submitted quiz.Answer) bool {
	// A set submission against a single-answer question only counts when it
	// collapses to one value.
	if submitted.Multi && len(submitted.Values) != 1 {
		return false
	}
	return normalize(submitted.Value()) == normalize(q.CorrectAnswer.Value())
}

// setMatchStrategy requires exact set equality: no missing and no extra
// selections. Scalars on either side are treated as singleton sets.
type setMatchStrategy struct{}

func (setMatchStrategy) Correct(q quiz.Question, submitted quiz.Answer) bool {
	correct := toSet(q.CorrectAnswer.Set())
	got := toSet(submitted.Set())
	if len(correct) != len(got) {
		return false
	}
	for k := range correct {
		if _, ok := got[k]; !ok {
			return false
		}
	}
	return true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toSet(vs []string) map[string]struct{} {
	m := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		m[normalize(v)] = struct{}{}
	}
	return m
}
