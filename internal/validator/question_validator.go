package validator

import (
	"fmt"
	"slices"

	"github.com/SAP-F-2025/quality-service/internal/models"
)

const (
	minChoiceOptions = 2
	maxChoiceOptions = 20
)

// QuestionValidator checks campaign question sets before a session is started
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a single question against the rules of its kind
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if question.ID == "" {
		return fmt.Errorf("question id is required")
	}
	if question.Text == "" {
		return fmt.Errorf("question text is required")
	}
	if question.MinChars < 0 {
		return fmt.Errorf("min_chars cannot be negative")
	}

	switch question.Kind {
	case models.KindMultipleChoice:
		return v.validateMultipleChoice(question)
	case models.KindScale:
		return v.validateScale(question)
	case models.KindText:
		return v.validateText(question)
	default:
		return fmt.Errorf("unsupported question kind: %s", question.Kind)
	}
}

// ValidateSet validates an ordered question set. Ids must be unique because
// responses are keyed by question id.
func (v *QuestionValidator) ValidateSet(questions models.QuestionSet) error {
	if len(questions) == 0 {
		return fmt.Errorf("question set cannot be empty")
	}

	seen := make(map[string]bool, len(questions))
	for i := range questions {
		question := &questions[i]
		if err := v.ValidateQuestion(question); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
		if seen[question.ID] {
			return fmt.Errorf("duplicate question id %q", question.ID)
		}
		seen[question.ID] = true
	}

	return nil
}

func (v *QuestionValidator) validateMultipleChoice(question *models.Question) error {
	if len(question.Options) < minChoiceOptions {
		return fmt.Errorf("must have at least %d options", minChoiceOptions)
	}
	if len(question.Options) > maxChoiceOptions {
		return fmt.Errorf("cannot have more than %d options", maxChoiceOptions)
	}

	seen := make(map[string]bool, len(question.Options))
	for _, option := range question.Options {
		if option == "" {
			return fmt.Errorf("option text cannot be empty")
		}
		if seen[option] {
			return fmt.Errorf("duplicate option %q", option)
		}
		seen[option] = true
	}

	if question.CorrectAnswer != nil && !slices.Contains(question.Options, *question.CorrectAnswer) {
		return fmt.Errorf("correct answer %q is not one of the options", *question.CorrectAnswer)
	}
	if question.IsAttentionCheck && question.CorrectAnswer == nil {
		return fmt.Errorf("attention check must define a correct answer")
	}
	return nil
}

func (v *QuestionValidator) validateScale(question *models.Question) error {
	if question.IsAttentionCheck {
		return fmt.Errorf("attention checks must be multiple choice")
	}
	if question.MinChars > 0 {
		return fmt.Errorf("min_chars only applies to text questions")
	}
	return nil
}

func (v *QuestionValidator) validateText(question *models.Question) error {
	if len(question.Options) > 0 {
		return fmt.Errorf("text questions cannot have options")
	}
	if question.IsAttentionCheck {
		return fmt.Errorf("attention checks must be multiple choice")
	}
	return nil
}
