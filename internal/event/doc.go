// Package event provides an in-process event manager.
//
// Callers register listeners for named or typed occurrences with Listen,
// other code announces that something happened with Dispatch, and every
// matching listener runs synchronously in the dispatching goroutine, one
// after another, in a deterministic order.
//
// # Architecture
//
//	                ┌────────────────────────────────────┐
//	                │              Manager               │
//	                │  - Listen / Forget / Subscribe     │
//	                │  - Dispatch                        │
//	                │  - Fake / Assert*                  │
//	                └────────────────────────────────────┘
//	                                  │
//	        ┌─────────────────────────┼─────────────────────────┐
//	        ▼                         ▼                         ▼
//	┌────────────────┐      ┌──────────────────┐      ┌──────────────────┐
//	│    Registry    │      │ dispatch.Engine  │      │ listener.Resolver│
//	│  - exact keys  │      │  - sequential    │      │  - instance      │
//	│  - patterns    │      │  - fail fast     │      │  - func / class  │
//	└────────────────┘      └──────────────────┘      └──────────────────┘
//
// # Keys
//
// A string occurrence dispatches under its own name. A structured
// occurrence dispatches under its type, unless it implements Namer, in
// which case it dispatches under EventName. Message is a ready-made named
// occurrence with a JSON payload. Namer types are listened to by name; a
// type key for one is rejected with ErrInvalidKey.
//
//	m.Listen("user.login", ref)               // named key
//	m.Listen(event.TypeOf[OrderPlaced](), ref) // type key
//	m.Listen(OrderPlaced{}, ref)               // type key from a prototype
//
// # Wildcard Patterns
//
// Strings containing "*" are patterns matched against the occurrence name
// (the string, or the Go type name for structured occurrences). "*"
// matches any run of characters, dots included:
//
//	user.*   - matches user.login, user.password.reset
//	*        - matches everything
//	*Placed  - matches the OrderPlaced type
//
// # Ordering
//
// Exact listeners are collected first, then the listeners of every
// matching pattern in pattern registration order. The combined list is
// stable-sorted by descending priority, so priority decides order
// regardless of whether a listener was registered exactly or by pattern.
//
// # Failure
//
// Dispatch stops at the first failing listener and returns an *EventError
// wrapping the cause. Nothing is retried and nothing is logged above
// debug level; the caller decides what to do.
//
// # Fake Mode
//
// Fake switches a manager into a test double: occurrences are recorded
// instead of dispatched and can be asserted on with AssertDispatched and
// friends.
//
//	m.Fake()
//	_ = m.Dispatch(ctx, &OrderPlaced{ID: 123})
//	err := m.AssertDispatched(reflect.TypeFor[OrderPlaced](), func(o any) bool {
//	    return o.(*OrderPlaced).ID == 123
//	})
//
// # Thread Safety
//
// A Manager may be used from several goroutines. Listeners for a single
// dispatch never run concurrently with each other. Ordering across
// independent Dispatch calls is not defined.
package event
