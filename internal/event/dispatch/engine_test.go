package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/herald/internal/event/listener"
)

type recordingHandler struct {
	name  string
	calls *[]string
	err   error
}

func (h *recordingHandler) Handle(_ context.Context, _ any) error {
	*h.calls = append(*h.calls, h.name)
	return h.err
}

type noHandle struct{}

func TestResult_IsSuccess(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		expected bool
	}{
		{"success", Result{Success: true}, true},
		{"error", Result{Success: false, Error: errors.New("error")}, false},
		{"panic", Result{Success: false, Panicked: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.IsSuccess(); got != tt.expected {
				t.Errorf("IsSuccess() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestResult_IsErrorAndPanic(t *testing.T) {
	errResult := Result{Error: errors.New("boom")}
	if !errResult.IsError() || errResult.IsPanic() {
		t.Errorf("error result: IsError=%v IsPanic=%v", errResult.IsError(), errResult.IsPanic())
	}

	panicResult := Result{Panicked: true, PanicValue: "boom"}
	if panicResult.IsError() || !panicResult.IsPanic() {
		t.Errorf("panic result: IsError=%v IsPanic=%v", panicResult.IsError(), panicResult.IsPanic())
	}
}

func TestEngine_RunsInOrder(t *testing.T) {
	var calls []string
	refs := []listener.Ref{
		listener.Instance(&recordingHandler{name: "a", calls: &calls}),
		listener.Instance(&recordingHandler{name: "b", calls: &calls}),
		listener.Instance(&recordingHandler{name: "c", calls: &calls}),
	}

	e := NewEngine(nil)
	results, err := e.Run(context.Background(), "user.login", "user.login", refs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if got := strings.Join(calls, ","); got != "a,b,c" {
		t.Errorf("calls = %q, want %q", got, "a,b,c")
	}
	for _, r := range results {
		if !r.IsSuccess() {
			t.Errorf("result %s not successful", r.Ref)
		}
	}
}

func TestEngine_StopsAtFirstError(t *testing.T) {
	var calls []string
	cause := errors.New("mail server down")
	refs := []listener.Ref{
		listener.Instance(&recordingHandler{name: "a", calls: &calls}),
		listener.Instance(&recordingHandler{name: "b", calls: &calls, err: cause}),
		listener.Instance(&recordingHandler{name: "c", calls: &calls}),
	}

	e := NewEngine(nil)
	results, err := e.Run(context.Background(), "order.shipped", "order.shipped", refs)
	if !errors.Is(err, cause) {
		t.Fatalf("Run() error = %v, want wrapping %v", err, cause)
	}

	var evErr *EventError
	if !errors.As(err, &evErr) {
		t.Fatalf("error %T is not *EventError", err)
	}
	if evErr.Key != "order.shipped" {
		t.Errorf("Key = %q, want %q", evErr.Key, "order.shipped")
	}
	if evErr.Ref != "*dispatch.recordingHandler" {
		t.Errorf("Ref = %q", evErr.Ref)
	}
	if got := strings.Join(calls, ","); got != "a,b" {
		t.Errorf("calls = %q, want %q", got, "a,b")
	}
	if len(results) != 2 {
		t.Errorf("len(results) = %d, want 2", len(results))
	}
}

func TestEngine_InvalidListener(t *testing.T) {
	e := NewEngine(nil)
	_, err := e.Run(context.Background(), "x", "x", []listener.Ref{listener.Instance(noHandle{})})

	if !errors.Is(err, ErrInvalidListener) {
		t.Fatalf("Dispatch() error = %v, want ErrInvalidListener", err)
	}
	var invErr *InvalidListenerError
	if !errors.As(err, &invErr) {
		t.Fatalf("error %T does not wrap *InvalidListenerError", err)
	}
	if invErr.Type != "dispatch.noHandle" {
		t.Errorf("Type = %q, want %q", invErr.Type, "dispatch.noHandle")
	}
}

func TestEngine_NilInstance(t *testing.T) {
	e := NewEngine(nil)
	_, err := e.Run(context.Background(), "x", "x", []listener.Ref{listener.Instance(nil)})
	if !errors.Is(err, ErrInvalidListener) {
		t.Errorf("Dispatch() error = %v, want ErrInvalidListener", err)
	}
}

func TestEngine_ResolutionFailure(t *testing.T) {
	boom := errors.New("no such service")
	ref := listener.Class("mailer", func() (any, error) { return nil, boom })

	e := NewEngine(nil)
	_, err := e.Run(context.Background(), "x", "x", []listener.Ref{ref})

	if !errors.Is(err, listener.ErrResolution) {
		t.Errorf("Dispatch() error = %v, want ErrResolution", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Dispatch() error = %v, want wrapping %v", err, boom)
	}
	if e.Stats().Failed != 1 {
		t.Errorf("Failed = %d, want 1", e.Stats().Failed)
	}
}

func TestEngine_ResolvesFreshEachRun(t *testing.T) {
	constructed := 0
	ref := listener.Class("counter", func() (any, error) {
		constructed++
		return listener.HandlerFunc(func(context.Context, any) error { return nil }), nil
	})

	e := NewEngine(nil)
	for i := 0; i < 3; i++ {
		if _, err := e.Run(context.Background(), "x", "x", []listener.Ref{ref}); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
	}
	if constructed != 3 {
		t.Errorf("constructed = %d, want 3", constructed)
	}
}

func TestEngine_CustomResolver(t *testing.T) {
	var seen []string
	resolver := listener.ResolverFunc(func(ctx context.Context, ref listener.Ref) (any, error) {
		seen = append(seen, ref.String())
		return listener.DefaultResolver{}.Resolve(ctx, ref)
	})

	var calls []string
	refs := []listener.Ref{
		listener.Instance(&recordingHandler{name: "inst", calls: &calls}),
		listener.FuncOf("fn", func(context.Context, any) error {
			calls = append(calls, "fn")
			return nil
		}),
	}

	e := NewEngine(resolver)
	if _, err := e.Run(context.Background(), "x", "x", refs); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	// Instances bypass the resolver.
	if len(seen) != 1 || seen[0] != "fn" {
		t.Errorf("resolver saw %v, want [fn]", seen)
	}
	if got := strings.Join(calls, ","); got != "inst,fn" {
		t.Errorf("calls = %q", got)
	}
}

func TestEngine_PanicIsReported(t *testing.T) {
	var handled any
	e := NewEngine(nil, WithPanicHandler(func(p Panic) {
		handled = p.Value
	}))

	ref := listener.FuncOf("explode", func(context.Context, any) error {
		panic("kaboom")
	})
	_, err := e.Run(context.Background(), "x", "x", []listener.Ref{ref})

	if !errors.Is(err, ErrHandlerPanic) {
		t.Fatalf("Dispatch() error = %v, want ErrHandlerPanic", err)
	}
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("error does not wrap *PanicError")
	}
	if pe.Value != "kaboom" {
		t.Errorf("Value = %v, want kaboom", pe.Value)
	}
	if pe.Stack == "" {
		t.Error("Stack is empty")
	}
	if handled != "kaboom" {
		t.Errorf("panic handler saw %v", handled)
	}
	if e.Stats().Panicked != 1 {
		t.Errorf("Panicked = %d, want 1", e.Stats().Panicked)
	}
}

func TestEngine_ContextCancelledBetweenListeners(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls []string
	refs := []listener.Ref{
		listener.FuncOf("cancel", func(context.Context, any) error {
			calls = append(calls, "cancel")
			cancel()
			return nil
		}),
		listener.Instance(&recordingHandler{name: "after", calls: &calls}),
	}

	e := NewEngine(nil)
	_, err := e.Run(ctx, "x", "x", refs)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Dispatch() error = %v, want context.Canceled", err)
	}
	if got := strings.Join(calls, ","); got != "cancel" {
		t.Errorf("calls = %q, want %q", got, "cancel")
	}
}

func TestEngine_NoListeners(t *testing.T) {
	e := NewEngine(nil)
	results, err := e.Run(context.Background(), "x", "x", nil)
	if err != nil {
		t.Errorf("Run() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestEngine_Stats(t *testing.T) {
	var calls []string
	e := NewEngine(nil)
	refs := []listener.Ref{
		listener.Instance(&recordingHandler{name: "a", calls: &calls}),
		listener.Instance(&recordingHandler{name: "b", calls: &calls}),
	}
	_, _ = e.Run(context.Background(), "x", "x", refs)
	_, _ = e.Run(context.Background(), "x", "x", refs[:1])

	stats := e.Stats()
	if stats.Runs != 2 {
		t.Errorf("Runs = %d, want 2", stats.Runs)
	}
	if stats.Invoked != 3 || stats.Succeeded != 3 {
		t.Errorf("Invoked = %d Succeeded = %d, want 3 and 3", stats.Invoked, stats.Succeeded)
	}
}

func TestEventError_Message(t *testing.T) {
	err := &EventError{Key: "user.login", Ref: "audit", Err: errors.New("disk full")}
	want := "dispatch of user.login failed at listener audit: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestPanicError_Message(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"boom", "listener x panicked: boom"},
		{errors.New("bad"), "listener x panicked: bad"},
		{42, "listener x panicked: 42"},
	}
	for _, tt := range tests {
		pe := &PanicError{Ref: "x", Value: tt.value}
		if pe.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", pe.Error(), tt.want)
		}
	}
}
