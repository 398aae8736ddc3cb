package question

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOutOfRange signals a slider value outside [0,1]. The submission is
	// rejected and no Result is produced.
	ErrOutOfRange = errors.New("value out of range")
	// ErrBadValue signals a submission whose shape does not match the kind
	// (e.g. a list sent to a single-choice question).
	ErrBadValue = errors.New("bad submission value")
)

// Question grades submissions for one configured question. Implementations
// hold no mutable state; the same value always grades the same way.
type Question interface {
	ID() string
	Weight() float64
	Submit(value interface{}) (Result, error)
}

// New resolves a Config to its concrete variant. Kinds form a closed set.
func New(cfg Config) (Question, error) {
	switch cfg.Kind {
	case KindFreeText:
		return freeText{base{cfg}}, nil
	case KindSingleChoice:
		return singleChoice{base{cfg}}, nil
	case KindMultiChoice:
		return multiChoice{base{cfg}}, nil
	case KindBinary:
		return binaryChoice{base{cfg}}, nil
	case KindCompletion:
		return completion{base{cfg}}, nil
	case KindSlider:
		return slider{base{cfg}}, nil
	default:
		return nil, fmt.Errorf("unknown question kind: %q", cfg.Kind)
	}
}

type base struct{ cfg Config }

func (b base) ID() string      { return b.cfg.ID }
func (b base) Weight() float64 { return b.cfg.Weight }

// --- freetext ---

type freeText struct{ base }

// A whitespace-only answer is always incorrect, even with min_characters 0.
func (q freeText) Submit(value interface{}) (Result, error) {
	s, ok := value.(string)
	if !ok {
		return Result{}, ErrBadValue
	}
	trimmed := strings.TrimSpace(s)
	correct := trimmed != "" && len([]rune(trimmed)) >= q.cfg.MinCharacters
	res := Result{Status: StatusIncorrect, Submission: s}
	if correct {
		res.Status = StatusCorrect
		res.Score = 1
	} else if q.cfg.MinCharacters > 0 {
		res.Feedback = []string{fmt.Sprintf("Please enter at least %d characters.", q.cfg.MinCharacters)}
	}
	return res, nil
}

// --- single choice (MCQ / rating) ---

type singleChoice struct{ base }

func (q singleChoice) Submit(value interface{}) (Result, error) {
	s, ok := value.(string)
	if !ok {
		return Result{}, ErrBadValue
	}
	correct := false
	for _, c := range q.cfg.CorrectChoices {
		if s == c {
			correct = true
			break
		}
	}
	res := Result{Status: StatusIncorrect, Submission: s}
	if correct {
		res.Status = StatusCorrect
		res.Score = 1
	}
	res.Feedback = append(res.Feedback, q.label(correct))
	if tip := tipFor(q.cfg.Choices, s); tip != "" {
		res.Feedback = append(res.Feedback, tip)
	}
	return res, nil
}

// Display text only; correctness is unaffected. With a single acceptable
// value the wording is Correct/Wrong, with several it is Acceptable/Not
// Acceptable.
func (q singleChoice) label(correct bool) string {
	if len(q.cfg.CorrectChoices) == 1 {
		if correct {
			return "Correct"
		}
		return "Wrong"
	}
	if correct {
		return "Acceptable"
	}
	return "Not Acceptable"
}

// --- multi choice (MRQ) ---

type multiChoice struct{ base }

// Each choice scores one point when it is in its expected position: a
// required choice selected, an ignored choice either way, any other choice
// left unselected. score = points/N.
func (q multiChoice) Submit(value interface{}) (Result, error) {
	selected, ok := toStringSlice(value)
	if !ok {
		return Result{}, ErrBadValue
	}
	sel := toSet(selected)
	n := len(q.cfg.Choices)
	if n == 0 {
		return Result{Status: StatusIncorrect, Submission: selected}, nil
	}
	points := 0
	var feedback []string
	for _, c := range q.cfg.Choices {
		_, picked := sel[c.Value]
		switch {
		case c.Selector == SelectorIgnored:
			points++
		case c.Selector == SelectorRequired && picked:
			points++
		case c.Selector == "" && !picked:
			points++
		default:
			if c.Tip != "" {
				feedback = append(feedback, c.Tip)
			}
		}
	}
	res := Result{Submission: selected, Score: float64(points) / float64(n), Feedback: feedback}
	switch points {
	case 0:
		res.Status = StatusIncorrect
	case n:
		res.Status = StatusCorrect
	default:
		res.Status = StatusPartial
	}
	return res, nil
}

// --- binary (swipe) ---

type binaryChoice struct{ base }

func (q binaryChoice) Submit(value interface{}) (Result, error) {
	s, ok := value.(string)
	if !ok {
		if b, isBool := value.(bool); isBool {
			// hosts sometimes send the swipe direction as a boolean
			s = fmt.Sprintf("%t", b)
		} else {
			return Result{}, ErrBadValue
		}
	}
	res := Result{Status: StatusIncorrect, Submission: s}
	if len(q.cfg.CorrectChoices) == 1 && s == q.cfg.CorrectChoices[0] {
		res.Status = StatusCorrect
		res.Score = 1
	}
	if tip := tipFor(q.cfg.Choices, s); tip != "" {
		res.Feedback = []string{tip}
	}
	return res, nil
}

// --- completion ---

type completion struct{ base }

// Completion records acknowledgment, not correctness. Any submission earns
// full credit.
func (q completion) Submit(value interface{}) (Result, error) {
	return Result{Status: StatusCorrect, Score: 1, Submission: value}, nil
}

// --- slider ---

type slider struct{ base }

func (q slider) Submit(value interface{}) (Result, error) {
	f, ok := toFloat(value)
	if !ok {
		return Result{}, ErrBadValue
	}
	if f < 0 || f > 1 {
		return Result{}, ErrOutOfRange
	}
	return Result{Status: StatusCorrect, Score: 1, Submission: f}, nil
}

// --- helpers ---

func tipFor(choices []Choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Tip
		}
	}
	return ""
}

func toStringSlice(v interface{}) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
