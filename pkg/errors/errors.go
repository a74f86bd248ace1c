// Package errors defines the typed error taxonomy shared by all engine
// components.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeProcessing ErrorType = "processing"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error codes for the engine's failure modes
const (
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeProcessingFailed = "PROCESSING_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// AppError represents an application-specific error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *AppError {
	return NewAppError(ErrorTypeValidation, code, message)
}

// NewProcessingError creates a processing error
func NewProcessingError(code, message string) *AppError {
	return NewAppError(ErrorTypeProcessing, code, message)
}

// NewInsufficientDataError reports that a series is too short for a method.
func NewInsufficientDataError(message string) *AppError {
	return NewValidationError(CodeInsufficientData, message)
}

// NewInvalidInputError reports an out-of-range parameter.
func NewInvalidInputError(message string) *AppError {
	return NewValidationError(CodeInvalidInput, message)
}

// WrapError wraps an existing error with application context
func WrapError(err error, errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// IsInsufficientData reports whether err is an InsufficientData error.
func IsInsufficientData(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeInsufficientData
	}
	return false
}

// IsInvalidInput reports whether err is an InvalidInput error.
func IsInvalidInput(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeInvalidInput
	}
	return false
}
