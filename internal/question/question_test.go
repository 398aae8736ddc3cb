package question

import (
	"errors"
	"testing"
)

func mustNew(t *testing.T, cfg Config) Question {
	t.Helper()
	q, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return q
}

func TestFreeText_MinCharacters(t *testing.T) {
	q := mustNew(t, Config{ID: "q1", Kind: KindFreeText, Weight: 1, MinCharacters: 5})

	tests := []struct {
		name   string
		value  string
		status Status
		score  float64
	}{
		{"too short", "hi", StatusIncorrect, 0},
		{"long enough", "hello!", StatusCorrect, 1},
		{"padding does not count", "  hi  ", StatusIncorrect, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := q.Submit(tc.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != tc.status || res.Score != tc.score {
				t.Fatalf("got (%s, %v); want (%s, %v)", res.Status, res.Score, tc.status, tc.score)
			}
		})
	}
}

func TestFreeText_EmptyAlwaysIncorrect(t *testing.T) {
	q := mustNew(t, Config{ID: "q1", Kind: KindFreeText, Weight: 1})
	for _, v := range []string{"", "   "} {
		res, err := q.Submit(v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != StatusIncorrect {
			t.Fatalf("empty/whitespace %q should be incorrect even with min_characters 0", v)
		}
	}
	res, _ := q.Submit("x")
	if res.Status != StatusCorrect {
		t.Fatalf("non-empty answer should be correct with min_characters 0")
	}
}

func TestSingleChoice(t *testing.T) {
	q := mustNew(t, Config{
		ID: "q2", Kind: KindSingleChoice, Weight: 1,
		Choices:        []Choice{{Value: "a", Tip: "nope"}, {Value: "b", Tip: "yes"}},
		CorrectChoices: []string{"b"},
	})

	res, err := q.Submit("b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusCorrect || res.Score != 1 {
		t.Fatalf("want correct/1, got %s/%v", res.Status, res.Score)
	}
	if len(res.Feedback) == 0 || res.Feedback[0] != "Correct" {
		t.Fatalf("single correct choice should label Correct, got %v", res.Feedback)
	}

	res, _ = q.Submit("a")
	if res.Status != StatusIncorrect || res.Score != 0 {
		t.Fatalf("want incorrect/0, got %s/%v", res.Status, res.Score)
	}
	if res.Feedback[0] != "Wrong" {
		t.Fatalf("mismatch should label Wrong, got %v", res.Feedback)
	}
}

func TestSingleChoice_AcceptableLabels(t *testing.T) {
	q := mustNew(t, Config{
		ID: "rating", Kind: KindSingleChoice, Weight: 1,
		CorrectChoices: []string{"4", "5"},
	})
	res, _ := q.Submit("4")
	if res.Feedback[0] != "Acceptable" {
		t.Fatalf("multiple acceptable values should label Acceptable, got %v", res.Feedback)
	}
	res, _ = q.Submit("1")
	if res.Status != StatusIncorrect || res.Feedback[0] != "Not Acceptable" {
		t.Fatalf("got %s/%v", res.Status, res.Feedback)
	}
}

func TestMultiChoice_Scoring(t *testing.T) {
	// N=4: a required, b ignored, c/d must-not-select.
	q := mustNew(t, Config{
		ID: "mrq", Kind: KindMultiChoice, Weight: 1,
		Choices: []Choice{
			{Value: "a", Selector: SelectorRequired},
			{Value: "b", Selector: SelectorIgnored},
			{Value: "c", Tip: "c is a trap"},
			{Value: "d"},
		},
	})

	tests := []struct {
		name     string
		selected []string
		status   Status
		score    float64
	}{
		{"only required", []string{"a"}, StatusCorrect, 1},
		{"nothing selected", []string{}, StatusPartial, 0.75},
		{"required plus trap", []string{"a", "c"}, StatusPartial, 0.75},
		{"ignored never hurts", []string{"a", "b"}, StatusCorrect, 1},
		{"everything wrong", []string{"c", "d"}, StatusPartial, 0.25},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := q.Submit(tc.selected)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != tc.status || res.Score != tc.score {
				t.Fatalf("got (%s, %v); want (%s, %v)", res.Status, res.Score, tc.status, tc.score)
			}
		})
	}
}

func TestMultiChoice_ZeroChoices(t *testing.T) {
	q := mustNew(t, Config{ID: "mrq0", Kind: KindMultiChoice, Weight: 1})
	res, err := q.Submit([]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 0 || res.Status != StatusIncorrect {
		t.Fatalf("zero-choice MRQ must not divide by zero; got %s/%v", res.Status, res.Score)
	}
}

func TestMultiChoice_TipForMishandledChoice(t *testing.T) {
	q := mustNew(t, Config{
		ID: "mrq", Kind: KindMultiChoice, Weight: 1,
		Choices: []Choice{
			{Value: "a", Selector: SelectorRequired, Tip: "you need a"},
			{Value: "b"},
		},
	})
	res, _ := q.Submit([]string{})
	if len(res.Feedback) != 1 || res.Feedback[0] != "you need a" {
		t.Fatalf("expected tip for missed required choice, got %v", res.Feedback)
	}
}

func TestBinaryChoice(t *testing.T) {
	q := mustNew(t, Config{
		ID: "swipe", Kind: KindBinary, Weight: 1,
		Choices:        []Choice{{Value: "left"}, {Value: "right", Tip: "swipe right"}},
		CorrectChoices: []string{"right"},
	})
	res, _ := q.Submit("right")
	if res.Status != StatusCorrect {
		t.Fatalf("got %s", res.Status)
	}
	res, _ = q.Submit("left")
	if res.Status != StatusIncorrect {
		t.Fatalf("got %s", res.Status)
	}
}

func TestCompletion_AlwaysCorrect(t *testing.T) {
	q := mustNew(t, Config{ID: "done", Kind: KindCompletion, Weight: 1})
	for _, v := range []interface{}{true, false, "anything"} {
		res, err := q.Submit(v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != StatusCorrect || res.Score != 1 {
			t.Fatalf("completion must always be correct; got %s/%v for %v", res.Status, res.Score, v)
		}
	}
}

func TestSlider_Range(t *testing.T) {
	q := mustNew(t, Config{ID: "slider", Kind: KindSlider, Weight: 1})
	res, err := q.Submit(0.7)
	if err != nil || res.Status != StatusCorrect {
		t.Fatalf("in-range value: err=%v status=%s", err, res.Status)
	}
	for _, v := range []float64{-0.1, 1.1} {
		if _, err := q.Submit(v); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("value %v: want ErrOutOfRange, got %v", v, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok mcq", Config{ID: "q", Kind: KindSingleChoice, Weight: 1,
			Choices: []Choice{{Value: "a"}, {Value: "b"}}, CorrectChoices: []string{"a"}}, false},
		{"missing id", Config{Kind: KindFreeText}, true},
		{"negative weight", Config{ID: "q", Kind: KindFreeText, Weight: -1}, true},
		{"duplicate choice", Config{ID: "q", Kind: KindMultiChoice, Weight: 1,
			Choices: []Choice{{Value: "a"}, {Value: "a"}}}, true},
		{"correct choice not configured", Config{ID: "q", Kind: KindSingleChoice, Weight: 1,
			Choices: []Choice{{Value: "a"}}, CorrectChoices: []string{"z"}}, true},
		{"binary needs two choices", Config{ID: "q", Kind: KindBinary, Weight: 1,
			Choices: []Choice{{Value: "a"}}, CorrectChoices: []string{"a"}}, true},
		{"bad selector", Config{ID: "q", Kind: KindMultiChoice, Weight: 1,
			Choices: []Choice{{Value: "a", Selector: "both"}}}, true},
		{"negative min chars", Config{ID: "q", Kind: KindFreeText, Weight: 1, MinCharacters: -2}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
