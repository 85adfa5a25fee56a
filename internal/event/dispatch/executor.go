package dispatch

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/dshills/herald/internal/event/listener"
)

// Executor invokes one resolved listener, timing it and turning a panic
// into a Result instead of unwinding the dispatch.
type Executor struct {
	onPanic PanicHandler
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorPanicHandler sets the callback run after a listener panics.
// A nil handler is ignored.
func WithExecutorPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		if h != nil {
			e.onPanic = h
		}
	}
}

// NewExecutor creates an executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{onPanic: func(Panic) {}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute calls h for occurrence on behalf of the listener named ref.
func (e *Executor) Execute(ctx context.Context, ref string, occurrence any, h listener.Handler) (result Result) {
	result.Ref = ref
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		r := recover()
		if r == nil {
			return
		}
		result.Success = false
		result.Panicked = true
		result.PanicValue = r
		result.PanicStack = debug.Stack()

		// A panicking callback must not escape either.
		func() {
			defer func() { _ = recover() }()
			e.onPanic(Panic{Ref: ref, Occurrence: occurrence, Value: r, Stack: result.PanicStack})
		}()
	}()

	result.Error = h.Handle(ctx, occurrence)
	result.Success = result.Error == nil
	return result
}
