// Package facade exposes one process-wide event manager behind
// package-level functions.
//
// The shared manager is created lazily and can be swapped with SetManager,
// typically to give each test an isolated manager:
//
//	prev := facade.SetManager(event.New())
//	t.Cleanup(func() { facade.SetManager(prev) })
//
// Library code should accept an *event.Manager instead of using this
// package.
package facade

import (
	"context"
	"sync/atomic"

	"github.com/dshills/herald/internal/event"
	"github.com/dshills/herald/internal/event/listener"
)

var shared atomic.Pointer[event.Manager]

// Manager returns the shared manager, creating a default one on first use.
func Manager() *event.Manager {
	for {
		if m := shared.Load(); m != nil {
			return m
		}
		if m := event.New(); shared.CompareAndSwap(nil, m) {
			return m
		}
	}
}

// SetManager replaces the shared manager and returns the previous one,
// which is nil if none had been created yet. A nil m makes the next call
// to Manager create a fresh default manager.
func SetManager(m *event.Manager) *event.Manager {
	return shared.Swap(m)
}

// Listen registers ref for key on the shared manager.
func Listen(key any, ref listener.Ref, opts ...event.ListenOption) error {
	return Manager().Listen(key, ref, opts...)
}

// ListenFunc registers fn for key on the shared manager.
func ListenFunc(key any, fn listener.HandlerFunc, opts ...event.ListenOption) error {
	return Manager().ListenFunc(key, fn, opts...)
}

// Forget removes the listeners for key from the shared manager.
func Forget(key any) {
	Manager().Forget(key)
}

// Subscribe registers a subscriber on the shared manager.
func Subscribe(ref listener.Ref) error {
	return Manager().Subscribe(ref)
}

// Dispatch dispatches occurrence on the shared manager.
func Dispatch(ctx context.Context, occurrence any) error {
	return Manager().Dispatch(ctx, occurrence)
}

// HasListeners reports whether the shared manager has listeners for key.
func HasListeners(key any) bool {
	return Manager().HasListeners(key)
}

// Fake switches the shared manager into fake mode.
func Fake(only ...any) {
	Manager().Fake(only...)
}

// AssertDispatched runs AssertDispatched on the shared manager.
func AssertDispatched(matcher any, predicate ...func(any) bool) error {
	return Manager().AssertDispatched(matcher, predicate...)
}

// AssertNotDispatched runs AssertNotDispatched on the shared manager.
func AssertNotDispatched(matcher any, predicate ...func(any) bool) error {
	return Manager().AssertNotDispatched(matcher, predicate...)
}
