package listener

import (
	"context"
	"fmt"
)

// Resolver turns a registered Ref into the value that will be dispatched to.
//
// Resolution happens on every dispatch and results are never cached, so a
// resolver backed by a dependency-injection container can hand out
// per-dispatch state. The returned value is checked for the Handler
// capability by the caller.
type Resolver interface {
	Resolve(ctx context.Context, ref Ref) (any, error)
}

// ResolverFunc is a function adapter for Resolver.
type ResolverFunc func(ctx context.Context, ref Ref) (any, error)

// Resolve implements the Resolver interface.
func (f ResolverFunc) Resolve(ctx context.Context, ref Ref) (any, error) {
	return f(ctx, ref)
}

// DefaultResolver resolves references without any container:
//   - instances are returned unchanged
//   - callables are returned as a HandlerFunc
//   - class references are constructed with no arguments
type DefaultResolver struct{}

// Resolve implements the Resolver interface.
func (DefaultResolver) Resolve(_ context.Context, ref Ref) (any, error) {
	switch r := ref.(type) {
	case nil:
		return nil, &ResolutionError{Ref: "<nil>", Err: ErrNilRef}
	case *InstanceRef:
		return r.Value, nil
	case *FuncRef:
		if r.Fn == nil {
			return nil, &ResolutionError{Ref: r.String(), Err: ErrNilRef}
		}
		return r.Fn, nil
	case *ClassRef:
		return r.construct()
	default:
		return nil, &ResolutionError{Ref: ref.String(), Err: fmt.Errorf("unsupported reference %T", ref)}
	}
}
