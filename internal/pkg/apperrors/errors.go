package apperrors

import (
	"errors"
	"fmt"
)

const (
	CodeResourceNotFound  = "RESOURCE_NOT_FOUND"
	CodeDuplicateResource = "DUPLICATE_RESOURCE"
	CodeRequestValidation = "REQUEST_VALIDATION"
	CodeDatabase          = "DB_ERROR"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	ErrInternalServer = errors.New("internal server error")
)

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

// AppError is an error meant to reach the API boundary with a stable code and a
// client-facing message. Cause links it to one of the sentinels above.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewResourceNotFound(message string) error {
	return &AppError{Code: CodeResourceNotFound, Message: message, Cause: ErrNotFound}
}

func NewDuplicateResource(message string) error {
	return &AppError{Code: CodeDuplicateResource, Message: message, Cause: ErrAlreadyExists}
}

func NewRequestValidation(message string) error {
	return &AppError{Code: CodeRequestValidation, Message: message, Cause: ErrValidation}
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    CodeDatabase,
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}
