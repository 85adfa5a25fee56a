// Package listener defines the handler capability and the references under
// which listeners are registered, and resolves references into handlers.
//
// A Ref is one of three variants:
//
//	listener.Instance(&SendWelcomeEmail{})        // already constructed
//	listener.Func(func(ctx context.Context, e any) error { ... })
//	listener.ClassOf[SendWelcomeEmail]()          // constructed per dispatch
//
// The Resolver interface lets a host application construct class
// references itself, for example from a dependency-injection container,
// without changing how dispatch works.
package listener
