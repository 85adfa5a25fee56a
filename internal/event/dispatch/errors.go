package dispatch

import (
	"errors"
	"fmt"
)

// Sentinel errors for the dispatch package.
var (
	// ErrInvalidListener matches every *InvalidListenerError via errors.Is.
	ErrInvalidListener = errors.New("listener does not implement Handle")

	// ErrHandlerPanic matches every *PanicError via errors.Is.
	ErrHandlerPanic = errors.New("handler panicked")
)

// EventError is returned by a dispatch that was aborted. It wraps the cause:
// a resolution error, an *InvalidListenerError, a handler error, a
// *PanicError or a context error.
type EventError struct {
	// Key names the occurrence being dispatched.
	Key string

	// Ref names the listener that failed.
	Ref string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *EventError) Error() string {
	return "dispatch of " + e.Key + " failed at listener " + e.Ref + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *EventError) Unwrap() error {
	return e.Err
}

// InvalidListenerError reports that a resolved listener lacks the Handle
// capability.
type InvalidListenerError struct {
	// Ref names the offending reference.
	Ref string

	// Type is the dynamic type the reference resolved to.
	Type string
}

// Error implements the error interface.
func (e *InvalidListenerError) Error() string {
	return "listener " + e.Ref + " (" + e.Type + ") must implement Handle(ctx, occurrence) error"
}

// Is allows errors.Is to match InvalidListenerError with ErrInvalidListener.
func (e *InvalidListenerError) Is(target error) bool {
	return target == ErrInvalidListener
}

// PanicError wraps a panic value as an error.
type PanicError struct {
	// Ref names the listener that panicked.
	Ref string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return "listener " + e.Ref + " panicked: " + panicString(e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}

func panicString(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}
