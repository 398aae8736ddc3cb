package question

// Status classifies the outcome of one submission.
type Status string

const (
	StatusCorrect   Status = "correct"
	StatusIncorrect Status = "incorrect"
	StatusPartial   Status = "partial"
)

// Kind enumerates the closed set of question variants. New kinds require a
// case in New; there is no open registration.
type Kind string

const (
	KindFreeText     Kind = "freetext"
	KindSingleChoice Kind = "single_choice" // MCQ and ratings
	KindMultiChoice  Kind = "multi_choice"  // MRQ
	KindBinary       Kind = "binary"        // swipe left/right
	KindCompletion   Kind = "completion"
	KindSlider       Kind = "slider"
)

// Selector classifies an MRQ choice. The zero value means the choice must
// not be selected.
type Selector string

const (
	SelectorRequired Selector = "required"
	SelectorIgnored  Selector = "ignored"
)

type Choice struct {
	Value     string   `json:"value"`
	Content   string   `json:"content,omitempty"`
	Tip       string   `json:"tip,omitempty"`
	Selector  Selector `json:"selector,omitempty"`   // MRQ only
	ReviewTip string   `json:"review_tip,omitempty"` // assessment review
}

// Config is the authoring-time definition of one question. It is immutable
// during a student session; all per-student state lives in Result records
// owned by the controller.
type Config struct {
	ID     string  `json:"id"`
	Kind   Kind    `json:"kind"`
	Title  string  `json:"title,omitempty"`
	Weight float64 `json:"weight"`

	// freetext
	MinCharacters int    `json:"min_characters,omitempty"`
	DefaultFrom   string `json:"default_from,omitempty"` // named answer to show as placeholder

	// choice-based kinds
	Choices        []Choice `json:"choices,omitempty"`
	CorrectChoices []string `json:"correct_choices,omitempty"` // single_choice / binary
}

// Result is the per-submission outcome record. Submission echoes the raw
// value back so a re-render replays the stored result without re-grading.
type Result struct {
	Status     Status      `json:"status"`
	Score      float64     `json:"score"`
	Submission interface{} `json:"submission"`
	Feedback   []string    `json:"feedback,omitempty"`
}

func (r Result) Correct() bool { return r.Status == StatusCorrect }
