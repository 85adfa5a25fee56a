package event

import (
	"time"

	"github.com/dshills/herald/internal/event/dispatch"
)

// Observer is notified after every Dispatch call that derived a key.
// Implementations must be safe for concurrent use and must not dispatch.
type Observer interface {
	ObserveDispatch(info DispatchInfo)
}

// ObserverFunc is a function adapter for Observer.
type ObserverFunc func(info DispatchInfo)

// ObserveDispatch implements the Observer interface.
func (f ObserverFunc) ObserveDispatch(info DispatchInfo) {
	f(info)
}

// DispatchInfo describes one completed dispatch.
type DispatchInfo struct {
	// Key is the derived key of the occurrence.
	Key Key

	// Faked is true if the occurrence was recorded instead of dispatched.
	Faked bool

	// Listeners is the number of matched listeners.
	Listeners int

	// Results holds one entry per attempted listener.
	Results []dispatch.Result

	// Duration is the wall time of the dispatch.
	Duration time.Duration

	// Err is the error returned to the caller, if any.
	Err error
}
