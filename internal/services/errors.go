package services

import (
	"errors"

	apperrors "github.com/SAP-F-2025/session-engine/internal/errors"
	"github.com/SAP-F-2025/session-engine/internal/repositories"
	"github.com/SAP-F-2025/session-engine/internal/session"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrValidationFailed = errors.New("validation failed")

	// Assessment specific errors
	ErrAssessmentNotFound       = errors.New("assessment not found")
	ErrAssessmentDuplicateID    = errors.New("assessment id already exists")
	ErrAssessmentFetchFailed    = errors.New("assessment could not be fetched")
	ErrAssessmentHasNoQuestions = errors.New("assessment has no questions")

	// Session specific errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionNotOwned = errors.New("session belongs to another student")
	ErrResultNotFound  = errors.New("result not found")
	ErrResultNotReady  = errors.New("session has not been submitted yet")
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAssessmentNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrResultNotFound) ||
		repositories.IsNotFoundError(err)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrAssessmentHasNoQuestions) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsInvalidState checks if error represents an illegal state-machine command
func IsInvalidState(err error) bool {
	return errors.Is(err, session.ErrInvalidState)
}

// IsInvalidReference checks if error references an unknown question or index
func IsInvalidReference(err error) bool {
	return errors.Is(err, session.ErrQuestionNotFound) ||
		errors.Is(err, session.ErrIndexOutOfRange)
}

// IsConflict checks if error represents a uniqueness conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrAssessmentDuplicateID)
}

// IsForbidden checks if error represents an ownership violation
func IsForbidden(err error) bool {
	return errors.Is(err, ErrSessionNotOwned)
}
