package dispatch

import (
	"time"
)

// Result is the outcome of one listener invocation.
type Result struct {
	// Ref names the listener reference that was invoked.
	Ref string

	// Success is true if the handler completed without error or panic.
	Success bool

	// Error is the error returned by resolution or by the handler, if any.
	Error error

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace at the point of panic.
	PanicStack []byte

	// Duration is how long the handler took to execute.
	Duration time.Duration
}

// IsSuccess reports whether the listener returned nil without panicking.
func (r Result) IsSuccess() bool {
	return r.Success && !r.Panicked && r.Error == nil
}

// IsError reports whether resolution or the listener returned an error.
func (r Result) IsError() bool {
	return r.Error != nil && !r.Panicked
}

// IsPanic reports whether the listener panicked.
func (r Result) IsPanic() bool {
	return r.Panicked
}

// Panic describes a recovered listener panic.
type Panic struct {
	// Ref names the listener that panicked.
	Ref string

	// Occurrence is the value being dispatched.
	Occurrence any

	// Value is the value passed to panic().
	Value any

	// Stack is the goroutine stack at the point of recovery.
	Stack []byte
}

// PanicHandler observes recovered listener panics. The dispatch still
// fails with a *PanicError after the handler returns.
type PanicHandler func(Panic)
