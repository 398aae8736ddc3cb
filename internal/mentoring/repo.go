package mentoring

import (
	"context"
	"time"
)

type ListOpts struct {
	Q      string
	Limit  int
	Offset int
}

// BlockStore persists authoring-time block definitions.
type BlockStore interface {
	PutBlock(ctx context.Context, b Block) error
	GetBlock(ctx context.Context, id string) (Block, error)
	ListBlocks(ctx context.Context, opts ListOpts) ([]BlockSummary, error)
}

// StateStore persists per-(student, block) controller state. GetState
// returns a zero-value state when none exists yet; the record is created
// implicitly on first save.
type StateStore interface {
	GetState(ctx context.Context, blockID, userID string) (State, error)
	SaveState(ctx context.Context, s State) error
}

// SessionStore persists the per-(student, course) shared session slot used
// for dependency gating.
type SessionStore interface {
	GetSession(ctx context.Context, courseID, userID string) (Session, error)
	SaveSession(ctx context.Context, s Session) error
}

// AnswerStore holds named per-student answer records, shared across blocks.
// Freetext questions use it for the default_from cross-reference and to
// keep the latest answer text addressable by name.
type AnswerStore interface {
	GetAnswer(ctx context.Context, userID, courseID, name string) (string, error)
	SaveAnswer(ctx context.Context, userID, courseID, name, value string) error
}

// Submission is one record of the external submissions log.
type Submission struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	BlockID    string      `json:"block_id"`
	QuestionID string      `json:"question_id"`
	Value      interface{} `json:"value"`
	CreatedAt  time.Time   `json:"created_at"`
}

// SubmissionLogger receives fire-and-forget copies of every submission. The
// core never depends on it for correctness.
type SubmissionLogger interface {
	Log(ctx context.Context, sub Submission) error
}
