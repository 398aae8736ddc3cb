// Package scoring computes the aggregate weighted score for a mentoring
// block. A Score is always derived on demand from the live question list and
// the stored results; it is never persisted, so it cannot drift from state.
package scoring

import (
	"math"

	"github.com/mind-engage/mentoring-core/internal/question"
)

// Ref points back at a question for review-step linking. Number is the
// 1-based position in the authored question order.
type Ref struct {
	Number int    `json:"number"`
	ID     string `json:"id"`
}

type Score struct {
	Raw              float64 `json:"raw"`
	Percentage       int     `json:"percentage"`
	Correct          []Ref   `json:"correct"`
	Incorrect        []Ref   `json:"incorrect"`
	PartiallyCorrect []Ref   `json:"partially_correct"`
}

// Compute aggregates results over the currently existing questions. Total
// weight counts every live question, answered or not; results for questions
// that no longer exist are skipped without error.
func Compute(questions []question.Question, results map[string]question.Result) Score {
	var total float64
	for _, q := range questions {
		total += q.Weight()
	}
	s := Score{
		Correct:          []Ref{},
		Incorrect:        []Ref{},
		PartiallyCorrect: []Ref{},
	}
	if total == 0 {
		return s
	}
	var earned float64
	for i, q := range questions {
		res, ok := results[q.ID()]
		if !ok {
			continue
		}
		earned += res.Score * q.Weight()
		ref := Ref{Number: i + 1, ID: q.ID()}
		switch res.Status {
		case question.StatusCorrect:
			s.Correct = append(s.Correct, ref)
		case question.StatusPartial:
			s.PartiallyCorrect = append(s.PartiallyCorrect, ref)
		default:
			s.Incorrect = append(s.Incorrect, ref)
		}
	}
	raw := earned / total
	if raw < 0 {
		raw = 0
	} else if raw > 1 {
		raw = 1
	}
	s.Raw = raw
	s.Percentage = int(math.Round(raw * 100))
	return s
}
