package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrInitialization indicates an initialization failure.
	ErrInitialization = errors.New("initialization failed")

	// ErrUnknownAction indicates a listener action the app cannot build.
	ErrUnknownAction = errors.New("unknown listener action")

	// ErrListenerFailed is wrapped by the fail action.
	ErrListenerFailed = errors.New("listener failed")

	// ErrExpectationFailed matches every *ExpectationError via errors.Is.
	ErrExpectationFailed = errors.New("expectation failed")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "listen", "dispatch", "watch")
	Target string // Target of the operation (e.g., listener or event name)
	Err    error  // Underlying error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// ExpectationError reports a configured expectation that did not hold.
type ExpectationError struct {
	Index int    // Position in the expect list
	Event string // Expected event name
	Err   error  // Assertion failure
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	return fmt.Sprintf("expect[%d] %s: %v", e.Index, e.Event, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExpectationError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match ExpectationError with ErrExpectationFailed.
func (e *ExpectationError) Is(target error) bool {
	return target == ErrExpectationFailed
}
