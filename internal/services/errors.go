package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/quality-service/internal/errors"
	"github.com/SAP-F-2025/quality-service/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Session specific errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionMismatch = errors.New("session belongs to a different task")
	ErrServiceClosed   = errors.New("session service is shutting down")

	// Campaign specific errors
	ErrCampaignNotFound = repositories.ErrCampaignNotFound
	ErrCampaignInvalid  = errors.New("campaign question set is invalid")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// CampaignConfigError wraps a question-set problem found when a session is started
type CampaignConfigError struct {
	CampaignID string `json:"campaign_id"`
	Err        error  `json:"-"`
}

func (e *CampaignConfigError) Error() string {
	return fmt.Sprintf("campaign %s: %v", e.CampaignID, e.Err)
}

func (e *CampaignConfigError) Unwrap() []error {
	return []error{ErrCampaignInvalid, e.Err}
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrCampaignNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSessionMismatch)
}
