package listener

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
)

// Kind identifies the variant of a Ref.
type Kind int

const (
	// KindInstance is an already constructed value.
	KindInstance Kind = iota

	// KindFunc is a bare callable wrapped into a handler.
	KindFunc

	// KindClass is a zero-argument constructible reference.
	KindClass
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindInstance:
		return "instance"
	case KindFunc:
		return "func"
	case KindClass:
		return "class"
	default:
		return "unknown"
	}
}

// Ref is a registered reference to a listener. It is a closed union of
// *InstanceRef, *FuncRef and *ClassRef; a Resolver turns it into a handler.
type Ref interface {
	// Kind returns the variant of the reference.
	Kind() Kind

	// String names the reference in errors and logs.
	String() string

	sealed()
}

// InstanceRef refers to an already constructed value.
// The value is used as is; it is not required to implement Handler until
// it is dispatched to.
type InstanceRef struct {
	Value any
}

// Instance returns a reference to an already constructed listener.
func Instance(v any) Ref {
	return &InstanceRef{Value: v}
}

func (r *InstanceRef) Kind() Kind { return KindInstance }

func (r *InstanceRef) String() string {
	return fmt.Sprintf("%T", r.Value)
}

func (r *InstanceRef) sealed() {}

// FuncRef refers to a bare callable.
type FuncRef struct {
	Name string
	Fn   HandlerFunc
}

// Func returns a reference to a callable. The function's symbol name is
// used to identify it in errors.
func Func(fn HandlerFunc) Ref {
	return &FuncRef{Name: funcName(fn), Fn: fn}
}

// FuncOf returns a reference to a callable with an explicit name.
func FuncOf(name string, fn HandlerFunc) Ref {
	return &FuncRef{Name: name, Fn: fn}
}

// Simple returns a reference to a callable that neither needs a context
// nor reports errors.
func Simple(fn func(occurrence any)) Ref {
	name := funcName(fn)
	return &FuncRef{
		Name: name,
		Fn: func(_ context.Context, occurrence any) error {
			fn(occurrence)
			return nil
		},
	}
}

func (r *FuncRef) Kind() Kind { return KindFunc }

func (r *FuncRef) String() string {
	if r.Name == "" {
		return "func"
	}
	return r.Name
}

func (r *FuncRef) sealed() {}

// ClassRef refers to a listener constructed on demand with no arguments.
// Type is informational and may be nil for factory-based references.
type ClassRef struct {
	Name string
	Type reflect.Type
	New  func() (any, error)
}

// Class returns a reference that is constructed by calling factory.
// A factory error or panic is reported as a *ResolutionError.
func Class(name string, factory func() (any, error)) Ref {
	return &ClassRef{Name: name, New: factory}
}

// ClassOf returns a reference that constructs a new *T (or a new T when T
// is a pointer type) for every resolution. Interface types cannot be
// constructed and fail at resolution time.
func ClassOf[T any]() Ref {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return &ClassRef{
		Name: t.String(),
		Type: t,
		New: func() (any, error) {
			switch t.Kind() {
			case reflect.Interface:
				return nil, fmt.Errorf("cannot construct interface type %s", t)
			case reflect.Pointer:
				return reflect.New(t.Elem()).Interface(), nil
			default:
				return reflect.New(t).Interface(), nil
			}
		},
	}
}

func (r *ClassRef) Kind() Kind { return KindClass }

func (r *ClassRef) String() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Type != nil {
		return r.Type.String()
	}
	return "class"
}

func (r *ClassRef) sealed() {}

// construct invokes the factory, converting errors and panics into a
// *ResolutionError.
func (r *ClassRef) construct() (v any, err error) {
	if r.New == nil {
		return nil, &ResolutionError{Ref: r.String(), Err: ErrNoFactory}
	}

	defer func() {
		if p := recover(); p != nil {
			v = nil
			err = &ResolutionError{Ref: r.String(), Err: fmt.Errorf("constructor panicked: %v", p)}
		}
	}()

	v, err = r.New()
	if err != nil {
		return nil, &ResolutionError{Ref: r.String(), Err: err}
	}
	return v, nil
}

// funcName returns the symbol name of a function value.
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return ""
}
