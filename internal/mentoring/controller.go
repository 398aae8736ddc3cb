package mentoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mind-engage/mentoring-core/internal/question"
	"github.com/mind-engage/mentoring-core/internal/scoring"
)

var (
	ErrMaxAttemptsReached = errors.New("max attempts reached")
	ErrDependencyUnmet    = errors.New("dependency not completed")
	ErrUnknownQuestion    = errors.New("unknown question")
)

const dependencyWarning = "You need to complete the step above before attempting this step."

// Publisher receives analytics and grade events. Publishing is best-effort:
// the controller ignores errors so a failed publish never corrupts state or
// blocks the response.
type Publisher interface {
	Publish(ctx context.Context, name string, payload map[string]interface{}) error
}

// SubmissionItem is one (question, value) pair of a submit payload. Payload
// order is preserved in the response.
type SubmissionItem struct {
	QuestionID string      `json:"question_id"`
	Value      interface{} `json:"value"`
}

type Payload []SubmissionItem

// ResultPair marshals as the two-element [id, result] array the host
// expects.
type ResultPair struct {
	ID     string
	Result question.Result
}

func (p ResultPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{p.ID, p.Result})
}

func (p *ResultPair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("result pair must have 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.ID); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &p.Result)
}

type StandardResponse struct {
	Results     []ResultPair `json:"results"`
	Completed   bool         `json:"completed"`
	Message     string       `json:"message"`
	MaxAttempts int          `json:"max_attempts"`
	NumAttempts int          `json:"num_attempts"`
}

// StepResponse is the assessment-mode submit response. Completed reports the
// correctness of the step just submitted, not the controller-level flag.
// Score and the answer counts are populated once the attempt has finished.
type StepResponse struct {
	Completed              bool `json:"completed"`
	MaxAttempts            int  `json:"max_attempts"`
	NumAttempts            int  `json:"num_attempts"`
	Step                   int  `json:"step"`
	Score                  int  `json:"score"`
	CorrectAnswer          int  `json:"correct_answer"`
	IncorrectAnswer        int  `json:"incorrect_answer"`
	PartiallyCorrectAnswer int  `json:"partially_correct_answer"`
}

type TryAgainResponse struct {
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
}

// Controller runs the submission state machine for one block. It is
// stateless between calls; all mutable state lives in the State passed in,
// which the caller persists after each call.
type Controller struct {
	block     Block
	questions []question.Question
	events    Publisher
}

// NewController resolves the block's question configs into their concrete
// variants. events may be nil.
func NewController(b Block, events Publisher) (*Controller, error) {
	qs := make([]question.Question, 0, len(b.Questions))
	for _, qc := range b.Questions {
		q, err := question.New(qc)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", b.ID, err)
		}
		qs = append(qs, q)
	}
	return &Controller{block: b, questions: qs, events: events}, nil
}

func (c *Controller) Block() Block { return c.block }

// Score recomputes the aggregate score from stored results. Never cached.
func (c *Controller) Score(state *State) scoring.Score {
	return scoring.Compute(c.questions, state.ResultsByID())
}

// LastResults replays the stored results in submission order without
// re-grading, for idempotent render-after-reload.
func (c *Controller) LastResults(state *State) []ResultPair {
	out := make([]ResultPair, 0, len(state.StudentResults))
	for _, e := range state.StudentResults {
		out = append(out, ResultPair{ID: e.QuestionID, Result: e.Result})
	}
	return out
}

func (c *Controller) maxAttemptsReached(state *State) bool {
	return c.block.MaxAttempts > 0 && state.NumAttempts >= c.block.MaxAttempts
}

// hasMissingDependency gates submission on the shared next-step pointer. A
// nil session means the host runs the block outside a gated sequence.
func (c *Controller) hasMissingDependency(state *State, sess *Session) bool {
	return c.block.EnforceDependency &&
		sess != nil &&
		!state.Completed(c.block.Mode) &&
		sess.NextStep != c.block.URLName
}

func (c *Controller) questionAt(id string) (question.Question, int, bool) {
	for i, q := range c.questions {
		if q.ID() == id {
			return q, i, true
		}
	}
	return nil, 0, false
}

// SubmitStandard runs one standard-mode submission cycle. The state is
// mutated only on an accepted submission; rejections leave it untouched.
//
// Once CompletedPerfect is set the stored results, attempts and grade are
// frozen: a student who already succeeded cannot spend further attempts.
func (c *Controller) SubmitStandard(ctx context.Context, state *State, sess *Session, payload Payload) (StandardResponse, error) {
	if c.maxAttemptsReached(state) {
		return StandardResponse{}, ErrMaxAttemptsReached
	}
	if c.hasMissingDependency(state, sess) {
		return StandardResponse{}, ErrDependencyUnmet
	}

	state.Attempted = true

	results := make([]ResultPair, 0, len(payload))
	submitted := map[string]interface{}{}
	fullyCorrect := true
	for _, item := range payload {
		q, _, ok := c.questionAt(item.QuestionID)
		if !ok {
			// question deleted since the page rendered; omit the entry
			continue
		}
		res, err := q.Submit(item.Value)
		if err != nil {
			// rejected value (e.g. slider out of range): no result recorded
			fullyCorrect = false
			continue
		}
		results = append(results, ResultPair{ID: item.QuestionID, Result: res})
		submitted[item.QuestionID] = res.Submission
		if !res.Correct() {
			fullyCorrect = false
		}
	}
	if len(results) == 0 {
		// nothing gradable in the payload (empty, or every value rejected):
		// keep the stored results and the attempt count as they are
		return StandardResponse{
			Results:     results,
			Completed:   state.CompletedPerfect,
			Message:     c.selectMessage(state.CompletedPerfect, c.maxAttemptsReached(state)),
			MaxAttempts: c.block.MaxAttempts,
			NumAttempts: state.NumAttempts,
		}, nil
	}

	wasCompleted := state.CompletedPerfect
	if !wasCompleted {
		// Latest submission wins wholesale: standard mode does not keep a
		// union across submissions.
		entries := make([]ResultEntry, 0, len(results))
		for _, p := range results {
			entries = append(entries, ResultEntry{QuestionID: p.ID, Result: p.Result})
		}
		state.StudentResults = entries
		score := c.Score(state)
		c.publish(ctx, "grade", map[string]interface{}{
			"value":     score.Raw,
			"max_value": 1.0,
		})
		if c.block.MaxAttempts > 0 {
			state.NumAttempts++
		}
	}

	completed := fullyCorrect || wasCompleted
	state.CompletedPerfect = completed

	message := ""
	if c.hasMissingDependency(state, sess) {
		state.CompletedPerfect = false
		completed = false
		message = dependencyWarning
	} else {
		// an empty pointer means the sequence has not started yet; the first
		// block completed seeds it
		if sess != nil && c.block.URLName != "" && fullyCorrect &&
			(sess.NextStep == "" || sess.NextStep == c.block.URLName) {
			sess.NextStep = c.block.FollowedBy
		}
		message = c.selectMessage(completed, c.maxAttemptsReached(state))
	}

	c.publish(ctx, "submitted", map[string]interface{}{
		"num_attempts":     state.NumAttempts,
		"submitted_answer": submitted,
		"grade":            c.Score(state).Raw,
	})

	return StandardResponse{
		Results:     results,
		Completed:   completed,
		Message:     message,
		MaxAttempts: c.block.MaxAttempts,
		NumAttempts: state.NumAttempts,
	}, nil
}

// SubmitStep runs one assessment-mode step submission. Steps are strictly
// forward-only: a payload for a step behind the cursor is a silent replay
// that mutates nothing, which makes duplicate or raced requests idempotent.
func (c *Controller) SubmitStep(ctx context.Context, state *State, item SubmissionItem) (StepResponse, error) {
	if c.maxAttemptsReached(state) {
		return StepResponse{}, ErrMaxAttemptsReached
	}
	q, position, ok := c.questionAt(item.QuestionID)
	if !ok {
		return StepResponse{}, ErrUnknownQuestion
	}

	if state.StepCursor > position {
		return c.replayStep(state, item.QuestionID), nil
	}

	res, err := q.Submit(item.Value)
	if err != nil {
		// no partial mutation on a rejected value
		return StepResponse{}, err
	}

	state.Attempted = true
	state.StepCursor = position + 1
	// assessment mode accumulates one entry per step, unlike standard mode
	state.StudentResults = append(state.StudentResults, ResultEntry{QuestionID: item.QuestionID, Result: res})

	resp := StepResponse{
		Completed:   res.Correct(),
		MaxAttempts: c.block.MaxAttempts,
		Step:        state.StepCursor,
	}

	if position == len(c.questions)-1 {
		score := c.Score(state)
		c.publish(ctx, "grade", map[string]interface{}{
			"value":     score.Raw,
			"max_value": 1.0,
		})
		// an attempt is consumed by finishing, regardless of correctness
		state.NumAttempts++
		state.AttemptFinished = true
		c.publish(ctx, "submitted", map[string]interface{}{
			"num_attempts":     state.NumAttempts,
			"submitted_answer": map[string]interface{}{item.QuestionID: res.Submission},
			"grade":            score.Raw,
		})
		resp.Score = score.Percentage
		resp.CorrectAnswer = len(score.Correct)
		resp.IncorrectAnswer = len(score.Incorrect)
		resp.PartiallyCorrectAnswer = len(score.PartiallyCorrect)
	}

	resp.NumAttempts = state.NumAttempts
	return resp, nil
}

// replayStep answers a stale submission for an already-passed step from
// stored state only.
func (c *Controller) replayStep(state *State, questionID string) StepResponse {
	resp := StepResponse{
		MaxAttempts: c.block.MaxAttempts,
		NumAttempts: state.NumAttempts,
		Step:        state.StepCursor,
	}
	if res, ok := state.LastResult(questionID); ok {
		resp.Completed = res.Correct()
	}
	if state.AttemptFinished {
		score := c.Score(state)
		resp.Score = score.Percentage
		resp.CorrectAnswer = len(score.Correct)
		resp.IncorrectAnswer = len(score.Incorrect)
		resp.PartiallyCorrectAnswer = len(score.PartiallyCorrect)
	}
	return resp
}

// TryAgain resets the attempt. Attempts already consumed stay consumed.
func (c *Controller) TryAgain(state *State) TryAgainResponse {
	if c.maxAttemptsReached(state) {
		return TryAgainResponse{Result: "error", Message: "max attempts reached"}
	}
	state.StepCursor = 0
	state.StudentResults = nil
	state.CompletedPerfect = false
	state.AttemptFinished = false
	return TryAgainResponse{Result: "success"}
}

func (c *Controller) publish(ctx context.Context, name string, payload map[string]interface{}) {
	if c.events == nil {
		return
	}
	// best-effort: a failed publish must not fail the submission
	_ = c.events.Publish(ctx, name, payload)
}
