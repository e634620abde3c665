package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess                = 0 // Indicates successful execution.
	ExitErrorGeneric           = 1 // Indicates a generic error.
	ExitErrorWorker            = 3 // Indicates at least one worker failed.
	ExitErrorConfig            = 4 // Indicates a configuration error.
	ExitErrorResourceExhausted = 5 // Indicates a worker could not be spawned.
)

// Worker failure codes carried by a failed result.
const (
	// FailureCodeGeneric is used when a worker returns a plain error.
	FailureCodeGeneric = 1
	// FailureCodePanic is used when a worker body panics.
	FailureCodePanic = 2
)

var (
	// ErrResourceExhausted is matched by every ResourceExhaustedError.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrInvalidHandle is matched by every InvalidHandleError.
	ErrInvalidHandle = errors.New("invalid handle")
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// ResourceExhaustedError is returned when the harness refuses to start
// another worker because its concurrency limit is reached.
type ResourceExhaustedError struct {
	// Label identifies the work item that could not be started.
	Label string
	// Limit is the maximum number of concurrently running workers.
	Limit int
}

// Error returns a formatted message describing the refused spawn.
func (e ResourceExhaustedError) Error() string {
	return fmt.Sprintf("cannot spawn worker for %q: worker limit %d reached", e.Label, e.Limit)
}

// Is reports whether target is ErrResourceExhausted.
func (e ResourceExhaustedError) Is(target error) bool { return target == ErrResourceExhausted }

// InvalidHandleError is returned when a handle is joined twice, is nil, or
// belongs to another harness instance. It signals a programming error.
type InvalidHandleError struct {
	// Reason explains why the handle was rejected.
	Reason string
}

// Error returns a formatted message describing the rejected handle.
func (e InvalidHandleError) Error() string {
	return "invalid handle: " + e.Reason
}

// Is reports whether target is ErrInvalidHandle.
func (e InvalidHandleError) Is(target error) bool { return target == ErrInvalidHandle }

// WorkerError carries an explicit failure code out of a worker body.
// Tasks return it to choose the code reported in the worker's result.
type WorkerError struct {
	// Code is the failure code reported for the worker (non-zero).
	Code int
	// Cause is the underlying error, may be nil.
	Cause error
}

// Error returns the cause message prefixed with the failure code.
func (e WorkerError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("worker failed with code %d", e.Code)
	}
	return fmt.Sprintf("worker failed with code %d: %v", e.Code, e.Cause)
}

// Unwrap returns the original wrapped error.
func (e WorkerError) Unwrap() error { return e.Cause }

// PanicError records a panic recovered from a worker body.
type PanicError struct {
	// Value is the value passed to panic.
	Value any
}

// Error returns a formatted message describing the panic.
func (e PanicError) Error() string {
	return fmt.Sprintf("worker panicked: %v", e.Value)
}

// FailureCode returns the code a failed worker reports for err.
// A WorkerError anywhere in the chain supplies its own code; a PanicError maps
// to FailureCodePanic; anything else maps to FailureCodeGeneric.
func FailureCode(err error) int {
	var we WorkerError
	if errors.As(err, &we) && we.Code != 0 {
		return we.Code
	}
	var pe PanicError
	if errors.As(err, &pe) {
		return FailureCodePanic
	}
	return FailureCodeGeneric
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
