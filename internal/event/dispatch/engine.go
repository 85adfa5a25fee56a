package dispatch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dshills/herald/internal/event/listener"
)

// Engine invokes an ordered list of listener references for one occurrence,
// sequentially in the caller's goroutine.
//
// References are resolved fresh on every run. The first failure aborts
// the remaining listeners and is returned as an *EventError.
type Engine struct {
	resolver listener.Resolver
	executor *Executor

	// Stats
	runs        atomic.Uint64
	invoked     atomic.Uint64
	succeeded   atomic.Uint64
	failed      atomic.Uint64
	panicked    atomic.Uint64
	totalTimeNs atomic.Int64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithPanicHandler sets the panic handler for the engine.
// The panic is still reported to the dispatch caller.
func WithPanicHandler(h PanicHandler) EngineOption {
	return func(e *Engine) {
		e.executor = NewExecutor(WithExecutorPanicHandler(h))
	}
}

// NewEngine creates a dispatch engine resolving references with resolver.
// A nil resolver falls back to listener.DefaultResolver.
func NewEngine(resolver listener.Resolver, opts ...EngineOption) *Engine {
	if resolver == nil {
		resolver = listener.DefaultResolver{}
	}
	e := &Engine{
		resolver: resolver,
		executor: NewExecutor(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolver returns the resolver used by the engine.
func (e *Engine) Resolver() listener.Resolver {
	return e.resolver
}

// Run resolves and invokes each reference in order and returns one Result
// per attempted listener. key names the occurrence in errors.
//
// Each handler runs to completion before the next starts. Resolution
// failures, handlers lacking the Handler capability, handler errors,
// panics and a context cancelled between listeners all stop the run and
// are returned wrapped in an *EventError.
func (e *Engine) Run(ctx context.Context, key string, occurrence any, refs []listener.Ref) ([]Result, error) {
	e.runs.Add(1)
	results := make([]Result, 0, len(refs))

	for _, ref := range refs {
		name := refName(ref)

		if err := ctx.Err(); err != nil {
			return results, &EventError{Key: key, Ref: name, Err: err}
		}

		h, err := e.resolve(ctx, ref)
		if err != nil {
			e.failed.Add(1)
			results = append(results, Result{Ref: name, Error: err})
			return results, &EventError{Key: key, Ref: name, Err: err}
		}

		result := e.executor.Execute(ctx, name, occurrence, h)
		results = append(results, result)

		e.invoked.Add(1)
		e.totalTimeNs.Add(result.Duration.Nanoseconds())

		switch {
		case result.Panicked:
			e.panicked.Add(1)
			return results, &EventError{Key: key, Ref: name, Err: &PanicError{
				Ref:   name,
				Value: result.PanicValue,
				Stack: string(result.PanicStack),
			}}
		case result.Error != nil:
			e.failed.Add(1)
			return results, &EventError{Key: key, Ref: name, Err: result.Error}
		default:
			e.succeeded.Add(1)
		}
	}

	return results, nil
}

// resolve turns a reference into a handler. Instances are used directly;
// everything else goes through the resolver.
func (e *Engine) resolve(ctx context.Context, ref listener.Ref) (listener.Handler, error) {
	var v any
	if inst, ok := ref.(*listener.InstanceRef); ok {
		v = inst.Value
	} else {
		resolved, err := e.resolver.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		v = resolved
	}

	h, ok := v.(listener.Handler)
	if !ok || h == nil {
		return nil, &InvalidListenerError{Ref: refName(ref), Type: fmt.Sprintf("%T", v)}
	}
	return h, nil
}

func refName(ref listener.Ref) string {
	if ref == nil {
		return "<nil>"
	}
	return ref.String()
}

// Stats returns engine statistics.
// Note: Stats are read without a mutex, so values may be slightly inconsistent
// if stats are being updated concurrently.
func (e *Engine) Stats() Stats {
	invoked := e.invoked.Load()
	totalNs := e.totalTimeNs.Load()

	var avgNs int64
	if invoked > 0 {
		avgNs = totalNs / int64(invoked)
	}

	return Stats{
		Runs:          e.runs.Load(),
		Invoked:       invoked,
		Succeeded:     e.succeeded.Load(),
		Failed:        e.failed.Load(),
		Panicked:      e.panicked.Load(),
		TotalDuration: time.Duration(totalNs),
		AvgDuration:   time.Duration(avgNs),
	}
}

// Stats contains statistics for an engine.
type Stats struct {
	// Runs is the total number of Run calls.
	Runs uint64

	// Invoked is the number of handlers that were executed.
	Invoked uint64

	// Succeeded is the number of successful handler executions.
	Succeeded uint64

	// Failed is the number of listeners that failed to resolve or returned errors.
	Failed uint64

	// Panicked is the number of handlers that panicked.
	Panicked uint64

	// TotalDuration is the cumulative time spent in handlers.
	TotalDuration time.Duration

	// AvgDuration is the average handler execution time.
	AvgDuration time.Duration
}
