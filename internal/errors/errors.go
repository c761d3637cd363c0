package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was absent (e.g., a 404 from a
	// membership lookup, meaning "not a member" rather than a failure).
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeHost indicates a non-2xx, non-404 response from the
	// repository host. Fatal to the current resolution attempt.
	ErrCodeHost ErrorCode = "host"
	// ErrCodeTransport indicates a network or response-decode failure.
	ErrCodeTransport ErrorCode = "transport"
	// ErrCodeHandoff indicates the OAuth handoff was rejected, cancelled,
	// or timed out. Fatal to the sign-in attempt only.
	ErrCodeHandoff ErrorCode = "handoff"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message,
// and optional cause. It supports error wrapping and unwrapping for use with
// errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Host creates a new Host error.
func Host(message string) *AppError {
	return &AppError{
		Code:    ErrCodeHost,
		Message: message,
	}
}

// Hostf creates a new Host error with formatted message.
func Hostf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeHost,
		Message: fmt.Sprintf(format, args...),
	}
}

// Transport creates a new Transport error.
func Transport(message string) *AppError {
	return &AppError{
		Code:    ErrCodeTransport,
		Message: message,
	}
}

// Handoff creates a new Handoff error.
func Handoff(message string) *AppError {
	return &AppError{
		Code:    ErrCodeHandoff,
		Message: message,
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsHost checks if an error is a Host error.
func IsHost(err error) bool {
	return isCode(err, ErrCodeHost)
}

// IsTransport checks if an error is a Transport error.
func IsTransport(err error) bool {
	return isCode(err, ErrCodeTransport)
}

// IsHandoff checks if an error is a Handoff error.
func IsHandoff(err error) bool {
	return isCode(err, ErrCodeHandoff)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
