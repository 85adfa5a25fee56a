package event

import (
	"errors"
	"strconv"

	"github.com/dshills/herald/internal/event/dispatch"
	"github.com/dshills/herald/internal/event/listener"
)

// Sentinel errors for the event manager.
var (
	// ErrInvalidKey is returned when a key or occurrence is nil or empty.
	ErrInvalidKey = errors.New("invalid event key")

	// ErrInvalidOccurrence is returned by Dispatch for occurrences no key
	// can be derived from.
	ErrInvalidOccurrence = errors.New("invalid occurrence")

	// ErrNilListener is returned when a nil listener reference is registered.
	ErrNilListener = errors.New("listener cannot be nil")

	// ErrInvalidSubscriber is returned when a subscriber reference does not
	// resolve to a Subscriber.
	ErrInvalidSubscriber = errors.New("subscriber does not implement Subscribe")

	// ErrNotFaking is returned by assertions on a manager that is not faking.
	ErrNotFaking = errors.New("event manager is not faking")

	// ErrAssertion matches every *AssertionError via errors.Is.
	ErrAssertion = errors.New("event assertion failed")
)

// Errors surfaced by Dispatch and Subscribe, re-exported so callers only
// need this package.
type (
	EventError           = dispatch.EventError
	InvalidListenerError = dispatch.InvalidListenerError
	PanicError           = dispatch.PanicError
	ResolutionError      = listener.ResolutionError
)

var (
	ErrInvalidListener = dispatch.ErrInvalidListener
	ErrHandlerPanic    = dispatch.ErrHandlerPanic
	ErrResolution      = listener.ErrResolution
)

// AssertionError reports a failed fake-mode assertion.
type AssertionError struct {
	// Matcher describes what was asserted on.
	Matcher string

	// Want describes the expectation, e.g. "dispatched" or "dispatched 2 times".
	Want string

	// Got is the number of matching recorded occurrences.
	Got int

	// Recorded is the total number of recorded occurrences.
	Recorded int
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return "expected " + e.Matcher + " to be " + e.Want + ", matched " +
		strconv.Itoa(e.Got) + " of " + strconv.Itoa(e.Recorded) + " recorded occurrences"
}

// Is allows errors.Is to match AssertionError with ErrAssertion.
func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertion
}
