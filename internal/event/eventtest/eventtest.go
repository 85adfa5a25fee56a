// Package eventtest provides testify-based helpers for code that
// dispatches through an *event.Manager.
//
//	func TestCheckout(t *testing.T) {
//	    m := eventtest.NewFake(t)
//	    svc := checkout.New(m)
//	    svc.PlaceOrder(ctx, 123)
//	    eventtest.AssertDispatchedType(t, m, func(o checkout.OrderPlaced) bool {
//	        return o.ID == 123
//	    })
//	}
package eventtest

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dshills/herald/internal/event"
	"github.com/dshills/herald/internal/event/listener"
)

type tHelper interface {
	Helper()
}

// NewFake returns a manager that logs to t and is already faking.
func NewFake(t testing.TB, only ...any) *event.Manager {
	t.Helper()
	m := event.New(event.WithLogger(zaptest.NewLogger(t)))
	m.Fake(only...)
	return m
}

// AssertDispatched asserts that m recorded an occurrence matching matcher
// and every predicate.
func AssertDispatched(t assert.TestingT, m *event.Manager, matcher any, predicate ...func(any) bool) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return assert.NoError(t, m.AssertDispatched(matcher, predicate...))
}

// RequireDispatched is like AssertDispatched but stops the test on failure.
func RequireDispatched(t require.TestingT, m *event.Manager, matcher any, predicate ...func(any) bool) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	require.NoError(t, m.AssertDispatched(matcher, predicate...))
}

// AssertDispatchedTimes asserts that exactly times recorded occurrences
// match matcher and every predicate.
func AssertDispatchedTimes(t assert.TestingT, m *event.Manager, matcher any, times int, predicate ...func(any) bool) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return assert.NoError(t, m.AssertDispatchedTimes(matcher, times, predicate...))
}

// AssertNotDispatched asserts that no recorded occurrence matches matcher
// and every predicate.
func AssertNotDispatched(t assert.TestingT, m *event.Manager, matcher any, predicate ...func(any) bool) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return assert.NoError(t, m.AssertNotDispatched(matcher, predicate...))
}

// AssertDispatchedType asserts that an occurrence of type T was recorded
// and satisfies every predicate.
func AssertDispatchedType[T any](t assert.TestingT, m *event.Manager, predicate ...func(T) bool) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return assert.NoError(t, event.AssertDispatchedType(m, predicate...))
}

// Recorder is a listener that remembers every occurrence it handles.
// Set Err to make it fail.
type Recorder struct {
	mu          sync.Mutex
	occurrences []any

	// Err is returned from every Handle call.
	Err error
}

// Handle implements listener.Handler.
func (r *Recorder) Handle(_ context.Context, occurrence any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.occurrences = append(r.occurrences, occurrence)
	return r.Err
}

// Ref returns an instance reference to the recorder.
func (r *Recorder) Ref() listener.Ref {
	return listener.Instance(r)
}

// Occurrences returns a copy of the handled occurrences in order.
func (r *Recorder) Occurrences() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.occurrences)
}

// Len returns the number of handled occurrences.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.occurrences)
}

// Reset forgets every handled occurrence.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.occurrences = nil
}
