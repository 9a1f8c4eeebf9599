package quiz_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/quizforge/quizforge-api/internal/quiz"
)

func TestAnswerJSON(t *testing.T) {
	t.Run("scalar round trip", func(t *testing.T) {
		b, err := json.Marshal(quiz.Single("Paris"))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != `"Paris"` {
			t.Fatalf("scalar answer should marshal as a bare string, got %s", b)
		}
		var a quiz.Answer
		if err := json.Unmarshal(b, &a); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if a.Multi || a.Value() != "Paris" {
			t.Fatalf("round trip = %+v", a)
		}
	})

	t.Run("set round trip", func(t *testing.T) {
		b, err := json.Marshal(quiz.Multiple("A", "B"))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != `["A","B"]` {
			t.Fatalf("set answer should marshal as an array, got %s", b)
		}
		var a quiz.Answer
		if err := json.Unmarshal(b, &a); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !a.Multi || len(a.Values) != 2 {
			t.Fatalf("round trip = %+v", a)
		}
	})

	t.Run("null is the zero answer", func(t *testing.T) {
		var a quiz.Answer
		if err := json.Unmarshal([]byte(`null`), &a); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !a.IsZero() {
			t.Fatalf("null should decode to zero, got %+v", a)
		}
	})

	t.Run("rejects other shapes", func(t *testing.T) {
		var a quiz.Answer
		err := json.Unmarshal([]byte(`42`), &a)
		if !errors.Is(err, quiz.ErrValidation) {
			t.Fatalf("number: err = %v, want ErrValidation", err)
		}
		if err := json.Unmarshal([]byte(`{"v":1}`), &a); !errors.Is(err, quiz.ErrValidation) {
			t.Fatalf("object: err = %v, want ErrValidation", err)
		}
	})

	t.Run("empty set marshals as empty array", func(t *testing.T) {
		b, err := json.Marshal(quiz.Answer{Multi: true})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != `[]` {
			t.Fatalf("got %s, want []", b)
		}
	})
}

func TestAnswerInMap(t *testing.T) {
	// The answers payload mixes both shapes under one map.
	var m map[string]quiz.Answer
	payload := []byte(`{"q1":"Paris","q2":["A","C"]}`)
	if err := json.Unmarshal(payload, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["q1"].Multi || m["q1"].Value() != "Paris" {
		t.Fatalf("q1 = %+v", m["q1"])
	}
	if !m["q2"].Multi || len(m["q2"].Values) != 2 {
		t.Fatalf("q2 = %+v", m["q2"])
	}
}
