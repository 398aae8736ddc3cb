package mentoring

import "github.com/mind-engage/mentoring-core/internal/question"

// selectMessage picks the feedback slot to surface. Completed wins over
// max-attempts-reached, which wins over incomplete.
func (c *Controller) selectMessage(completed, maxAttemptsReached bool) string {
	switch {
	case completed:
		return c.block.Messages.Completed
	case maxAttemptsReached:
		return c.block.Messages.MaxAttemptsReached
	default:
		return c.block.Messages.Incomplete
	}
}

// ReviewTip pairs a question with the authored tip content for the review
// step.
type ReviewTip struct {
	QuestionID string `json:"question_id"`
	Tip        string `json:"tip"`
}

// ReviewTips collects per-question review tips for the assessment review
// step. Tips are shown only for questions answered incorrectly once all
// attempts are used up; before that the student may still try again.
func (c *Controller) ReviewTips(state *State) []ReviewTip {
	if c.block.Mode != ModeAssessment || !c.maxAttemptsReached(state) {
		return nil
	}
	var tips []ReviewTip
	for _, e := range state.StudentResults {
		if e.Result.Correct() {
			continue
		}
		cfg, ok := c.configFor(e.QuestionID)
		if !ok {
			continue
		}
		for _, t := range reviewTipsFor(cfg, e.Result.Submission) {
			tips = append(tips, ReviewTip{QuestionID: e.QuestionID, Tip: t})
		}
	}
	return tips
}

func (c *Controller) configFor(id string) (question.Config, bool) {
	for _, qc := range c.block.Questions {
		if qc.ID == id {
			return qc, true
		}
	}
	return question.Config{}, false
}

// reviewTipsFor matches the submitted value(s) against the authored choices
// and returns the review tips of the choices the student picked.
func reviewTipsFor(cfg question.Config, submission interface{}) []string {
	selected := map[string]bool{}
	switch v := submission.(type) {
	case string:
		selected[v] = true
	case []string:
		for _, s := range v {
			selected[s] = true
		}
	case []interface{}:
		for _, e := range v {
			if s, ok := e.(string); ok {
				selected[s] = true
			}
		}
	default:
		return nil
	}
	var out []string
	for _, ch := range cfg.Choices {
		if ch.ReviewTip != "" && selected[ch.Value] {
			out = append(out, ch.ReviewTip)
		}
	}
	return out
}
