package mentoring

import "github.com/mind-engage/mentoring-core/internal/question"

// ResultEntry is one stored (question, result) pair. StudentResults keeps
// submission order; a question id appears at most once.
type ResultEntry struct {
	QuestionID string          `json:"question_id"`
	Result     question.Result `json:"result"`
}

// State is the per-(student, block) controller state. It is created with
// zero values the first time a session touches the block and mutated only by
// submit / try-again.
//
// "Completed" deliberately has two internal names because the two modes mean
// different things by it: CompletedPerfect is the sticky standard-mode flag
// (perfect score achieved at least once, never reverts), AttemptFinished is
// the assessment-mode flag (the attempt ran to the last step, regardless of
// score). Callers should go through Completed(mode).
type State struct {
	BlockID string `json:"block_id"`
	UserID  string `json:"user_id"`

	StudentResults []ResultEntry `json:"student_results"`
	NumAttempts    int           `json:"num_attempts"`
	StepCursor     int           `json:"step"`
	Attempted      bool          `json:"attempted"`

	CompletedPerfect bool `json:"completed"`
	AttemptFinished  bool `json:"attempt_finished"`

	UpdatedAt int64 `json:"updated_at,omitempty"`
}

// Completed reports the externally visible "completed" flag for a mode.
func (s *State) Completed(mode Mode) bool {
	if mode == ModeAssessment {
		return s.AttemptFinished
	}
	return s.CompletedPerfect
}

// ResultsByID returns the stored results keyed by question id, for score
// computation and last-result replay.
func (s *State) ResultsByID() map[string]question.Result {
	m := make(map[string]question.Result, len(s.StudentResults))
	for _, e := range s.StudentResults {
		m[e.QuestionID] = e.Result
	}
	return m
}

// LastResult replays the stored result for one question without re-grading.
func (s *State) LastResult(questionID string) (question.Result, bool) {
	for _, e := range s.StudentResults {
		if e.QuestionID == questionID {
			return e.Result, true
		}
	}
	return question.Result{}, false
}

// Session carries the state shared across sibling blocks of one course
// sequence. NextStep names the block (by url_name) currently unlocked for
// dependency gating.
type Session struct {
	CourseID string `json:"course_id"`
	UserID   string `json:"user_id"`
	NextStep string `json:"next_step"`
}
