package quiz

import "fmt"

// Validate checks the structural invariants of a quiz and derives
// TotalPoints and EstimatedTime from the question list. It is called before
// persistence so the scoring engine can rely on a well-formed quiz.
func Validate(q *Quiz) error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: quiz must have at least one question", ErrValidation)
	}
	seen := make(map[string]struct{}, len(q.Questions))
	total := 0.0
	for i := range q.Questions {
		qq := &q.Questions[i]
		if qq.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrValidation, i)
		}
		if _, dup := seen[qq.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrValidation, qq.ID)
		}
		seen[qq.ID] = struct{}{}
		if qq.Points == 0 {
			qq.Points = 1
		}
		if qq.Points < 0 {
			return fmt.Errorf("%w: question %q has negative points", ErrValidation, qq.ID)
		}
		if err := validateQuestion(*qq); err != nil {
			return err
		}
		total += qq.Points
	}
	q.TotalPoints = total
	if q.EstimatedTime == 0 {
		q.EstimatedTime = len(q.Questions) // 1 minute per question
	}
	q.Type = uniformType(q.Questions)
	return nil
}

// uniformType is the shared question type, or mixed when the list has more
// than one.
func uniformType(qs []Question) QuestionType {
	t := qs[0].Type
	for _, q := range qs[1:] {
		if q.Type != t {
			return TypeMixed
		}
	}
	return t
}

func validateQuestion(q Question) error {
	switch q.Type {
	case TypeMCQ, TypeMultipleSelect:
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %q: %s needs at least 2 options", ErrValidation, q.ID, q.Type)
		}
	case TypeTrueFalse:
		if len(q.Options) != 2 {
			return fmt.Errorf("%w: question %q: true-false needs exactly 2 options", ErrValidation, q.ID)
		}
	case TypeShortAnswer:
		if len(q.Options) != 0 {
			return fmt.Errorf("%w: question %q: short-answer takes no options", ErrValidation, q.ID)
		}
	case TypeMixed:
		// generation-time placeholder; individual questions carry a concrete type
	default:
		return fmt.Errorf("%w: question %q has unknown type %q", ErrValidation, q.ID, q.Type)
	}

	// Answer cardinality must be consistent with the type: a set only for
	// multiple-select, a single value otherwise.
	if q.CorrectAnswer.IsZero() {
		return fmt.Errorf("%w: question %q has no correct answer", ErrValidation, q.ID)
	}
	if q.Type == TypeMultipleSelect {
		return nil
	}
	if len(q.CorrectAnswer.Values) > 1 {
		return fmt.Errorf("%w: question %q: %s takes a single correct answer", ErrValidation, q.ID, q.Type)
	}
	return nil
}
