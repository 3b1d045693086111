package services

import (
	"errors"
	"fmt"

	apperrors "github.com/pojokcurhat/survey-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound   = errors.New("resource not found")
	ErrBadRequest = errors.New("bad request")

	// Submission specific errors
	ErrInvalidInput     = errors.New("invalid submission input")
	ErrWrongAnswerCount = errors.New("submission must answer every question exactly once")
	ErrSurveyNotFound   = errors.New("survey not found")

	// Analytics specific errors
	ErrNotConfigured = errors.New("database backend is not configured")

	// Export specific errors
	ErrUnknownExportFormat = errors.New("unknown export format")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// PersistenceError wraps a storage failure with the operation that caused it.
type PersistenceError struct {
	Operation string `json:"operation"`
	Err       error  `json:"-"`
}

func (pe *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", pe.Operation, pe.Err)
}

func (pe *PersistenceError) Unwrap() error {
	return pe.Err
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPersistenceError(operation string, err error) *PersistenceError {
	return &PersistenceError{
		Operation: operation,
		Err:       err,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSurveyNotFound)
}
