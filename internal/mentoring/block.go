package mentoring

import (
	"errors"
	"fmt"

	"github.com/mind-engage/mentoring-core/internal/question"
)

// Mode selects the submission flow for a block.
//
// Standard shows every question at once and lets the student retry until a
// perfect score locks the block. Assessment shows one step at a time with a
// limited number of attempts and a review at the end.
type Mode string

const (
	ModeStandard   Mode = "standard"
	ModeAssessment Mode = "assessment"
)

// Messages holds the three feedback slots the selector chooses from.
type Messages struct {
	Completed          string `json:"completed,omitempty"`
	Incomplete         string `json:"incomplete,omitempty"`
	MaxAttemptsReached string `json:"max_attempts_reached,omitempty"`
}

// Block is the authoring-time definition of one mentoring exercise. It is
// immutable during a student session.
type Block struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Mode  Mode   `json:"mode"`

	// MaxAttempts of 0 means unlimited.
	MaxAttempts int `json:"max_attempts"`

	// Dependency gating across sibling blocks in a course sequence.
	URLName           string `json:"url_name,omitempty"`
	FollowedBy        string `json:"followed_by,omitempty"`
	EnforceDependency bool   `json:"enforce_dependency,omitempty"`

	Questions []question.Config `json:"questions"`
	Messages  Messages          `json:"messages,omitempty"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

type BlockSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Mode      Mode   `json:"mode"`
	Questions int    `json:"questions"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

// Validate runs authoring-time checks over the whole block. Submission-time
// code assumes a block that passed validation.
func (b Block) Validate() error {
	if b.ID == "" {
		return errors.New("block.id is required")
	}
	if b.Mode != ModeStandard && b.Mode != ModeAssessment {
		return fmt.Errorf("block %s: unknown mode %q", b.ID, b.Mode)
	}
	if b.MaxAttempts < 0 {
		return fmt.Errorf("block %s: negative max_attempts", b.ID)
	}
	if len(b.Questions) == 0 {
		return fmt.Errorf("block %s: at least one question required", b.ID)
	}
	seen := map[string]bool{}
	for _, qc := range b.Questions {
		if seen[qc.ID] {
			return fmt.Errorf("block %s: duplicate question id %q", b.ID, qc.ID)
		}
		seen[qc.ID] = true
		if err := question.Validate(qc); err != nil {
			return fmt.Errorf("block %s: %w", b.ID, err)
		}
	}
	if b.EnforceDependency && b.URLName == "" {
		return fmt.Errorf("block %s: enforce_dependency requires url_name", b.ID)
	}
	return nil
}
