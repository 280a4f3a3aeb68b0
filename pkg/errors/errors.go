// Package errors provides structured error types for the strata layout engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across layout stages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every layout failure is a deterministic modeling error, not a transient
// fault: nothing in this package is retryable. The codes map directly onto
// the failure taxonomy of the layout stages:
//
//   - CONFIGURATION_ERROR: invalid operator configuration, caught eagerly
//   - LAYOUT_INFEASIBLE: the layering program has no solution
//   - SIZE_LIMIT_EXCEEDED: exact decrossing invoked above its node limits
//   - DEGENERATE_OBJECTIVE: coordinate objective is ill-posed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfiguration, "negative weight: %f", w)
//	if errors.Is(err, errors.ErrCodeConfiguration) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "solver failed")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// ErrCodeConfiguration signals invalid operator configuration: a
	// negative or zero weight where a positive one is required, an unknown
	// algorithm name in a config file, or a missing pipeline stage. Always
	// detected at construction time, never deferred to solve time.
	ErrCodeConfiguration Code = "CONFIGURATION_ERROR"

	// ErrCodeInfeasible signals that the layering program has no solution
	// honoring edge precedence plus the supplied rank/group hints. When any
	// hints are present the conflict is attributable to them; otherwise the
	// message is prefixed with "internal:" because precedence-only systems
	// over a valid DAG are always feasible.
	ErrCodeInfeasible Code = "LAYOUT_INFEASIBLE"

	// ErrCodeSizeLimit signals that the exact two-layer decrossing operator
	// was invoked on a layer above its supported node count. The message
	// names the tier ("medium" or "large") that was exceeded so callers can
	// fall back to a heuristic operator.
	ErrCodeSizeLimit Code = "SIZE_LIMIT_EXCEEDED"

	// ErrCodeDegenerate signals an ill-posed coordinate objective: a node
	// class whose verticality and curvature weights are both zero, or a
	// computed drawing width that is not positive.
	ErrCodeDegenerate Code = "DEGENERATE_OBJECTIVE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
