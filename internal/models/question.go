package models

type QuestionKind string

const (
	KindScale          QuestionKind = "scale"
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindText           QuestionKind = "text"
)

// Valid reports whether k is one of the supported kinds.
func (k QuestionKind) Valid() bool {
	switch k {
	case KindScale, KindMultipleChoice, KindText:
		return true
	}
	return false
}

// Question is a single prompt shown to the worker. Questions are immutable once
// created; campaign-supplied questions never set IsAttentionCheck.
type Question struct {
	ID               string       `json:"id" validate:"required,max=100"`
	Kind             QuestionKind `json:"kind" validate:"required,question_kind"`
	Text             string       `json:"text" validate:"required,max=2000"`
	Options          []string     `json:"options,omitempty" validate:"omitempty,max=20,dive,required"`
	CorrectAnswer    *string      `json:"correct_answer,omitempty"`
	IsAttentionCheck bool         `json:"is_attention_check"`

	// MinChars is the campaign's per-field minimum character count for text answers.
	MinChars int `json:"min_chars,omitempty" validate:"min=0,max=10000"`
}

// IsText reports whether answers to the question are free text.
func (q Question) IsText() bool {
	return q.Kind == KindText
}

// Public returns a copy safe to hand to the client: the correct answer is stripped
// and the attention-check marker is hidden so the decoy is indistinguishable.
func (q Question) Public() Question {
	public := q
	public.CorrectAnswer = nil
	public.IsAttentionCheck = false
	if q.Options != nil {
		public.Options = append([]string(nil), q.Options...)
	}
	return public
}

// QuestionSet is an ordered sequence of questions.
type QuestionSet []Question

// Public maps every question through Question.Public.
func (qs QuestionSet) Public() QuestionSet {
	out := make(QuestionSet, len(qs))
	for i, q := range qs {
		out[i] = q.Public()
	}
	return out
}

func StringPtr(s string) *string {
	return &s
}
