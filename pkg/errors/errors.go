package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for the failure categories the engine distinguishes
const (
	// General errors
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// Desired-state configuration errors (malformed entry, bad flags)
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Selection filter errors
	ErrSelectionUnknown  ErrorCode = "SELECTION_UNKNOWN"
	ErrSelectionConflict ErrorCode = "SELECTION_CONFLICT"

	// Run precondition errors (dirty host, drifted submodule)
	ErrPrecondition ErrorCode = "PRECONDITION"

	// Version resolution failed even after the origin/<version> fallback
	ErrResolution ErrorCode = "RESOLUTION"

	// Any underlying VCS primitive failure not otherwise classified
	ErrVcsOperation ErrorCode = "VCS_OPERATION"

	// Pre-run state could not be captured
	ErrSnapshot ErrorCode = "SNAPSHOT"

	// Best-effort restoration could not fully complete
	ErrRollback ErrorCode = "ROLLBACK"
)

// Vcs2gitError represents a structured error with code and details
type Vcs2gitError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *Vcs2gitError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Vcs2gitError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *Vcs2gitError) Is(target error) bool {
	var targetErr *Vcs2gitError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new Vcs2gitError with the given code and message
func New(code ErrorCode, message string) *Vcs2gitError {
	return &Vcs2gitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new Vcs2gitError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Vcs2gitError {
	return &Vcs2gitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a Vcs2gitError
func Wrap(err error, code ErrorCode, message string) *Vcs2gitError {
	if err == nil {
		return nil
	}
	return &Vcs2gitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Vcs2gitError {
	if err == nil {
		return nil
	}
	return &Vcs2gitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *Vcs2gitError) WithDetail(key string, value interface{}) *Vcs2gitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var verr *Vcs2gitError
	if errors.As(err, &verr) {
		return verr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a Vcs2gitError
func GetErrorCode(err error) ErrorCode {
	var verr *Vcs2gitError
	if errors.As(err, &verr) {
		return verr.Code
	}
	return ErrUnknown
}
