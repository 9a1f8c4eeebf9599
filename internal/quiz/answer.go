package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Answer is a submitted or correct answer: a single value for mcq,
// true-false and short-answer questions, or a set of values for
// multiple-select. On the wire it is a bare string or an array of strings.
type Answer struct {
	Values []string
	Multi  bool
}

// Single wraps one value into a scalar answer.
func Single(v string) Answer { return Answer{Values: []string{v}} }

// Multiple wraps values into a set answer.
func Multiple(vs ...string) Answer { return Answer{Values: vs, Multi: true} }

// IsZero reports whether no answer was given.
func (a Answer) IsZero() bool { return len(a.Values) == 0 }

// Value returns the scalar value, or "" for an empty answer. A set answer
// with exactly one member is treated as its sole value.
func (a Answer) Value() string {
	if len(a.Values) == 0 {
		return ""
	}
	return a.Values[0]
}

// Set returns the values normalized into a set shape: scalars become
// singleton sets.
func (a Answer) Set() []string {
	return a.Values
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Multi {
		if a.Values == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(a.Values)
	}
	return json.Marshal(a.Value())
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = Answer{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Answer{Values: []string{s}}
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*a = Answer{Values: arr, Multi: true}
		return nil
	}
	return fmt.Errorf("%w: answer must be a string or an array of strings", ErrValidation)
}
