package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes, one per failure class of a run
const (
	ErrInternal     = "INTERNAL"
	ErrNotFound     = "NOT_FOUND"
	ErrConflict     = "CONFLICT"
	ErrConfig       = "CONFIG"
	ErrAmbiguous    = "AMBIGUOUS"
	ErrDaemon       = "DAEMON"
	ErrInconsistent = "INCONSISTENT"
	ErrSpawn        = "SPAWN"
)

// AppError is a standardized error type for the application
type AppError struct {
	Code       string
	Message    string
	Op         string // Operation where the error occurred
	Err        error  // Underlying error
	Suggestion string // Actionable suggestion for the user
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s (cause: %v)", e.Code, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Op, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code, op, message string) *AppError {
	return &AppError{
		Code:    code,
		Op:      op,
		Message: message,
	}
}

// Wrap wraps an existing error into an AppError
func Wrap(err error, code, op, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// WrapWithSuggestion wraps an existing error with a suggestion
func WrapWithSuggestion(err error, code, op, message, suggestion string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Op:         op,
		Message:    message,
		Err:        err,
		Suggestion: suggestion,
	}
}

// WithSuggestion adds a suggestion to an existing AppError
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// IsCode checks if the error, or any error it wraps, carries the code
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CommandError is one daemon command that did not acknowledge.
type CommandError struct {
	Command string
	Reply   string
}

func (e CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Reply)
}

// DaemonErrors collects the failed commands of one reconciliation step.
type DaemonErrors []CommandError

func (d DaemonErrors) Error() string {
	parts := make([]string, 0, len(d))
	for _, e := range d {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}
