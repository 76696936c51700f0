// Package errors defines the error vocabulary shared across the gosink library.
//
// The sentinels here classify the two conditions every gosink component has to
// distinguish: a transient capacity problem (ErrFull) that clears once the
// consumer catches up, and a terminal shutdown (ErrClosed) that no retry can
// undo. Components wrap these sentinels so that errors.Is matching works
// across package boundaries.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed indicates that an operation was attempted on a closed resource.
	// It is terminal: once observed, repeating the operation keeps failing.
	ErrClosed = errors.New("resource is closed")

	// ErrFull indicates that a bounded buffer or queue is at capacity.
	// It is transient: the operation may succeed once capacity frees up.
	ErrFull = errors.New("capacity exceeded")

	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidConfiguration indicates invalid configuration parameters.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsTransient returns true if the error indicates a condition that may
// clear on its own, so retrying the operation later can succeed.
func IsTransient(err error) bool {
	return errors.Is(err, ErrFull) || errors.Is(err, ErrTimeout)
}

// IsTerminal returns true if the error indicates a permanent condition
// that no amount of retrying will resolve.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrClosed)
}

// ValidationError describes a configuration field that failed validation.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError for the given module and field.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap marks every ValidationError as an ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// OperationError describes a failed operation with its originating module.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError wrapping the given cause.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches additional context and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *OperationError) Unwrap() error {
	return e.Cause
}
