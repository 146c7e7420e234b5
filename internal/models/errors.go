package models

import "fmt"

// Error codes carried by AppError
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeIntegrity  = "INTEGRITY_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeInternal   = "INTERNAL_ERROR"
)

// Sentinels for errors.Is; they match any AppError with the same code.
var (
	ErrValidation = &AppError{Code: CodeValidation}
	ErrIntegrity  = &AppError{Code: CodeIntegrity}
	ErrNotFound   = &AppError{Code: CodeNotFound}
	ErrInternal   = &AppError{Code: CodeInternal}
)

// AppError represents a data layer error that callers translate into responses
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Code == e.Code
}

// NewValidationError reports a missing or malformed field
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewIntegrityError reports a uniqueness or foreign key violation
func NewIntegrityError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeIntegrity,
		Message: message,
		Err:     err,
	}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "internal database error",
		Err:     err,
	}
}
