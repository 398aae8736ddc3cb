package mentoring

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mentoring-core/internal/question"
)

var ErrWrongMode = errors.New("operation not available in this mode")

// Service wires the pure controller state machine to the persistence and
// event collaborators. Each operation loads state, runs the machine, saves,
// then fires the best-effort side effects.
type Service struct {
	blocks   BlockStore
	states   StateStore
	sessions SessionStore
	answers  AnswerStore
	events   Publisher
	sublog   SubmissionLogger
}

func NewService(blocks BlockStore, states StateStore, sessions SessionStore, answers AnswerStore, events Publisher, sublog SubmissionLogger) *Service {
	return &Service{blocks: blocks, states: states, sessions: sessions, answers: answers, events: events, sublog: sublog}
}

func (s *Service) controller(ctx context.Context, blockID string) (*Controller, error) {
	b, err := s.blocks.GetBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}
	return NewController(b, s.events)
}

// Submit runs a standard-mode submission cycle for one student.
func (s *Service) Submit(ctx context.Context, blockID, userID, courseID string, payload Payload) (StandardResponse, error) {
	ctrl, err := s.controller(ctx, blockID)
	if err != nil {
		return StandardResponse{}, err
	}
	if ctrl.Block().Mode != ModeStandard {
		return StandardResponse{}, ErrWrongMode
	}
	state, err := s.states.GetState(ctx, blockID, userID)
	if err != nil {
		return StandardResponse{}, err
	}

	var sess *Session
	if courseID != "" {
		loaded, err := s.sessions.GetSession(ctx, courseID, userID)
		if err != nil {
			return StandardResponse{}, err
		}
		sess = &loaded
	}
	prevNext := ""
	if sess != nil {
		prevNext = sess.NextStep
	}

	resp, err := ctrl.SubmitStandard(ctx, &state, sess, payload)
	if err != nil {
		return StandardResponse{}, err
	}
	if err := s.states.SaveState(ctx, state); err != nil {
		return StandardResponse{}, err
	}
	if sess != nil && sess.NextStep != prevNext {
		if err := s.sessions.SaveSession(ctx, *sess); err != nil {
			return StandardResponse{}, err
		}
	}

	s.logSubmissions(ctx, ctrl.Block(), userID, courseID, payload)
	return resp, nil
}

// SubmitStep runs one assessment-mode step submission.
func (s *Service) SubmitStep(ctx context.Context, blockID, userID, courseID string, item SubmissionItem) (StepResponse, error) {
	ctrl, err := s.controller(ctx, blockID)
	if err != nil {
		return StepResponse{}, err
	}
	if ctrl.Block().Mode != ModeAssessment {
		return StepResponse{}, ErrWrongMode
	}
	state, err := s.states.GetState(ctx, blockID, userID)
	if err != nil {
		return StepResponse{}, err
	}
	resp, err := ctrl.SubmitStep(ctx, &state, item)
	if err != nil {
		return StepResponse{}, err
	}
	if err := s.states.SaveState(ctx, state); err != nil {
		return StepResponse{}, err
	}
	s.logSubmissions(ctx, ctrl.Block(), userID, courseID, Payload{item})
	return resp, nil
}

// TryAgain resets the student's attempt on a block.
func (s *Service) TryAgain(ctx context.Context, blockID, userID string) (TryAgainResponse, error) {
	ctrl, err := s.controller(ctx, blockID)
	if err != nil {
		return TryAgainResponse{}, err
	}
	state, err := s.states.GetState(ctx, blockID, userID)
	if err != nil {
		return TryAgainResponse{}, err
	}
	resp := ctrl.TryAgain(&state)
	if resp.Result == "success" {
		if err := s.states.SaveState(ctx, state); err != nil {
			return TryAgainResponse{}, err
		}
	}
	return resp, nil
}

// StateView is the read-only snapshot served on re-render. Results replay
// stored submissions without re-grading; Defaults carries the default_from
// placeholder values for unanswered freetext questions.
type StateView struct {
	BlockID     string            `json:"block_id"`
	Mode        Mode              `json:"mode"`
	Results     []ResultPair      `json:"results"`
	Completed   bool              `json:"completed"`
	Attempted   bool              `json:"attempted"`
	MaxAttempts int               `json:"max_attempts"`
	NumAttempts int               `json:"num_attempts"`
	Step        int               `json:"step"`
	Score       int               `json:"score"`
	Defaults    map[string]string `json:"defaults,omitempty"`
	ReviewTips  []ReviewTip       `json:"review_tips,omitempty"`
}

func (s *Service) GetState(ctx context.Context, blockID, userID, courseID string) (StateView, error) {
	ctrl, err := s.controller(ctx, blockID)
	if err != nil {
		return StateView{}, err
	}
	state, err := s.states.GetState(ctx, blockID, userID)
	if err != nil {
		return StateView{}, err
	}
	b := ctrl.Block()
	view := StateView{
		BlockID:     blockID,
		Mode:        b.Mode,
		Results:     ctrl.LastResults(&state),
		Completed:   state.Completed(b.Mode),
		Attempted:   state.Attempted,
		MaxAttempts: b.MaxAttempts,
		NumAttempts: state.NumAttempts,
		Step:        state.StepCursor,
		Score:       ctrl.Score(&state).Percentage,
		ReviewTips:  ctrl.ReviewTips(&state),
	}
	view.Defaults = s.freetextDefaults(ctx, b, &state, userID, courseID)
	return view, nil
}

// freetextDefaults resolves default_from cross-references: when a freetext
// question has no stored value, another named answer is shown as a
// placeholder (never silently submitted).
func (s *Service) freetextDefaults(ctx context.Context, b Block, state *State, userID, courseID string) map[string]string {
	var defaults map[string]string
	for _, qc := range b.Questions {
		if qc.Kind != question.KindFreeText || qc.DefaultFrom == "" {
			continue
		}
		if res, ok := state.LastResult(qc.ID); ok {
			if sub, _ := res.Submission.(string); sub != "" {
				continue
			}
		}
		v, err := s.answers.GetAnswer(ctx, userID, courseID, qc.DefaultFrom)
		if err != nil || v == "" {
			continue
		}
		if defaults == nil {
			defaults = map[string]string{}
		}
		defaults[qc.ID] = v
	}
	return defaults
}

// logSubmissions forwards submissions to the external log and keeps freetext
// answers addressable by name for default_from. Both are fire-and-forget.
func (s *Service) logSubmissions(ctx context.Context, b Block, userID, courseID string, payload Payload) {
	for _, item := range payload {
		if s.sublog != nil {
			sub := Submission{
				ID:         uuid.NewString(),
				UserID:     userID,
				BlockID:    b.ID,
				QuestionID: item.QuestionID,
				Value:      item.Value,
				CreatedAt:  time.Now(),
			}
			if err := s.sublog.Log(ctx, sub); err != nil {
				log.Printf("submission log failed for %s/%s: %v", b.ID, item.QuestionID, err)
			}
		}
		if s.answers != nil {
			if cfg, ok := blockQuestion(b, item.QuestionID); ok && cfg.Kind == question.KindFreeText {
				if v, isStr := item.Value.(string); isStr && v != "" {
					if err := s.answers.SaveAnswer(ctx, userID, courseID, cfg.ID, v); err != nil {
						log.Printf("answer save failed for %s/%s: %v", b.ID, cfg.ID, err)
					}
				}
			}
		}
	}
}

func blockQuestion(b Block, id string) (question.Config, bool) {
	for _, qc := range b.Questions {
		if qc.ID == id {
			return qc, true
		}
	}
	return question.Config{}, false
}
