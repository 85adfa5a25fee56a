// Package dispatch invokes resolved listeners for one occurrence.
//
// The Engine walks an ordered list of listener references, resolves each
// one (instances are used as is, other references go through a
// listener.Resolver), checks that the result implements listener.Handler and
// runs it to completion before moving on to the next. There is no parallel
// fan-out.
//
// # Failure
//
// The first failure stops the run. Resolution errors, listeners lacking the
// Handle capability (*InvalidListenerError), handler errors, panics
// (*PanicError) and a context cancelled between two listeners are returned
// wrapped in an *EventError. Nothing is retried or suppressed.
//
// # Panic Recovery
//
// Panics inside handlers are recovered by the Executor so that a
// misbehaving listener cannot crash the host. A PanicHandler callback
// receives the panic value and stack.
//
// # Usage
//
//	engine := dispatch.NewEngine(listener.DefaultResolver{})
//	results, err := engine.Run(ctx, "user.login", "user.login", refs)
//	var evErr *dispatch.EventError
//	if errors.As(err, &evErr) {
//	    // evErr.Ref names the failing listener
//	}
package dispatch
