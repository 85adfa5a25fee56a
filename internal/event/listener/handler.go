package listener

import "context"

// Handler is the capability every resolved listener must expose.
type Handler interface {
	// Handle processes one occurrence.
	// The occurrence is type-erased; handlers should type-assert.
	Handle(ctx context.Context, occurrence any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, occurrence any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, occurrence any) error {
	return f(ctx, occurrence)
}

// Typed adapts a function over a concrete occurrence type to a HandlerFunc.
// A non-nil *T is dereferenced. Occurrences of another type are skipped
// without error.
func Typed[T any](fn func(ctx context.Context, occurrence T) error) HandlerFunc {
	return func(ctx context.Context, occurrence any) error {
		switch v := occurrence.(type) {
		case T:
			return fn(ctx, v)
		case *T:
			if v != nil {
				return fn(ctx, *v)
			}
		}
		// Type mismatch - skip silently
		return nil
	}
}
