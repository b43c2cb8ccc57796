package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/quality-service/internal/errors"
	"github.com/SAP-F-2025/quality-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct tag validation with question-set rules
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate runs struct validation and, for question sets, the set rules.
// Tag failures are returned as apperrors.ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	switch value := s.(type) {
	case models.QuestionSet:
		return v.questionValidator.ValidateSet(value)
	case *models.QuestionSet:
		return v.questionValidator.ValidateSet(*value)
	}

	if err := v.ValidateStruct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// Engine exposes the underlying go-playground validator, e.g. for gin binding.
func (v *Validator) Engine() *validator.Validate {
	return v.structValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_kind", validateQuestionKind)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// RegisterCustomValidators installs the custom tags on an external engine,
// such as the one gin uses for request binding.
func RegisterCustomValidators(validate *validator.Validate) {
	registerCustomValidators(validate)
}

func validateQuestionKind(fl validator.FieldLevel) bool {
	return models.QuestionKind(fl.Field().String()).Valid()
}
