package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/herald/internal/event/dispatch"
	"github.com/dshills/herald/internal/event/listener"
)

// Manager registers listeners and dispatches occurrences to them.
//
// A Manager is safe for concurrent use. Dispatch runs listeners in the
// caller's goroutine without holding internal locks, so listeners may
// register or forget listeners while running.
type Manager struct {
	registry *Registry
	engine   *dispatch.Engine
	logger   *zap.Logger
	observer Observer

	fake fakeState
}

// New creates a manager with the given options.
func New(opts ...Option) *Manager {
	config := defaultManagerConfig()
	for _, opt := range opts {
		opt(&config)
	}

	var engineOpts []dispatch.EngineOption
	if config.panicHandler != nil {
		engineOpts = append(engineOpts, dispatch.WithPanicHandler(config.panicHandler))
	}

	return &Manager{
		registry: NewRegistry(),
		engine:   dispatch.NewEngine(config.resolver, engineOpts...),
		logger:   config.logger,
		observer: config.observer,
	}
}

// Listen registers ref for key. Strings containing "*" are wildcard
// patterns matched against occurrence names; any other key is exact.
// See KeyOf for the accepted key forms.
//
// Registering the same reference twice makes it run twice.
func (m *Manager) Listen(key any, ref listener.Ref, opts ...ListenOption) error {
	k, err := KeyOf(key)
	if err != nil {
		return err
	}
	if ref == nil {
		return ErrNilListener
	}

	var config listenConfig
	for _, opt := range opts {
		opt(&config)
	}

	e := m.registry.Add(k, ref, config.priority)
	m.logger.Debug("listener registered",
		zap.Stringer("key", k),
		zap.String("listener", ref.String()),
		zap.Int("priority", e.Priority),
		zap.Bool("pattern", k.IsPattern()),
	)
	return nil
}

// ListenFunc registers fn for key. It is shorthand for
// Listen(key, listener.Func(fn), opts...).
func (m *Manager) ListenFunc(key any, fn listener.HandlerFunc, opts ...ListenOption) error {
	if fn == nil {
		return ErrNilListener
	}
	return m.Listen(key, listener.Func(fn), opts...)
}

// Forget removes every exact listener for key and every pattern listener
// registered under exactly the same pattern string. Listeners under
// other keys, including patterns that merely overlap, are unaffected.
func (m *Manager) Forget(key any) {
	k, err := KeyOf(key)
	if err != nil {
		return
	}
	n := m.registry.Remove(k)
	m.logger.Debug("listeners forgotten", zap.Stringer("key", k), zap.Int("removed", n))
}

// Subscribe resolves ref and lets the resulting Subscriber register its
// listeners with this manager.
func (m *Manager) Subscribe(ref listener.Ref) error {
	if ref == nil {
		return ErrNilListener
	}

	var v any
	if inst, ok := ref.(*listener.InstanceRef); ok {
		v = inst.Value
	} else {
		resolved, err := m.engine.Resolver().Resolve(context.Background(), ref)
		if err != nil {
			return err
		}
		v = resolved
	}

	s, ok := v.(Subscriber)
	if !ok || s == nil {
		return fmt.Errorf("%w: %s (%T)", ErrInvalidSubscriber, ref, v)
	}

	if err := s.Subscribe(m); err != nil {
		return fmt.Errorf("subscribe %s: %w", ref, err)
	}
	m.logger.Debug("subscriber registered", zap.String("subscriber", ref.String()))
	return nil
}

// Dispatch announces occurrence to its listeners and returns once all of
// them have finished.
//
// Listeners run one at a time in descending priority order. The first
// failure aborts the remaining listeners and is returned as an
// *EventError. With no matching listeners Dispatch does nothing. While
// faking, the occurrence is recorded and no listener runs.
func (m *Manager) Dispatch(ctx context.Context, occurrence any) error {
	key, err := KeyOf(occurrence)
	if err != nil {
		return fmt.Errorf("%w: %T", ErrInvalidOccurrence, occurrence)
	}

	start := time.Now()

	if m.fake.record(key, occurrence, start) {
		m.logger.Debug("occurrence recorded", zap.Stringer("key", key))
		m.observe(DispatchInfo{Key: key, Faked: true, Duration: time.Since(start)})
		return nil
	}

	entries := m.registry.Match(key)
	if len(entries) == 0 {
		m.observe(DispatchInfo{Key: key, Duration: time.Since(start)})
		return nil
	}

	refs := make([]listener.Ref, len(entries))
	for i, e := range entries {
		refs[i] = e.Ref
	}

	results, err := m.engine.Run(ctx, key.String(), occurrence, refs)
	info := DispatchInfo{
		Key:       key,
		Listeners: len(refs),
		Results:   results,
		Duration:  time.Since(start),
		Err:       err,
	}
	m.observe(info)

	if err != nil {
		m.logger.Debug("dispatch failed",
			zap.Stringer("key", key),
			zap.Int("listeners", len(refs)),
			zap.Int("invoked", len(results)),
			zap.Error(err),
		)
		return err
	}

	m.logger.Debug("dispatched",
		zap.Stringer("key", key),
		zap.Int("listeners", len(refs)),
		zap.Duration("duration", info.Duration),
	)
	return nil
}

func (m *Manager) observe(info DispatchInfo) {
	if m.observer != nil {
		m.observer.ObserveDispatch(info)
	}
}

// HasListeners reports whether a dispatch of key would reach any listener.
// For a pattern string it reports whether that pattern is registered.
func (m *Manager) HasListeners(key any) bool {
	k, err := KeyOf(key)
	if err != nil {
		return false
	}
	return m.registry.Has(k)
}

// Listeners returns the entries a dispatch of occurrence would run, in
// invocation order.
func (m *Manager) Listeners(occurrence any) []Entry {
	k, err := KeyOf(occurrence)
	if err != nil {
		return nil
	}
	return m.registry.Match(k)
}

// Count returns the number of registered listeners.
func (m *Manager) Count() int {
	return m.registry.Count()
}

// Keys returns every key and pattern with registered listeners.
func (m *Manager) Keys() []Key {
	return m.registry.Keys()
}

// Stats returns dispatch engine statistics.
func (m *Manager) Stats() dispatch.Stats {
	return m.engine.Stats()
}

var _ Registrar = (*Manager)(nil)

// fakeState is the fake-mode switch and its log. A nil only fakes every key.
type fakeState struct {
	mu      sync.Mutex
	enabled bool
	only    []Key
	records []Record
}

// record appends occurrence to the log if key is faked.
func (f *fakeState) record(key Key, occurrence any, at time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.enabled || !f.covers(key) {
		return false
	}
	f.records = append(f.records, Record{
		ID:         newRecordID(),
		Key:        key,
		Occurrence: occurrence,
		At:         at,
	})
	return true
}

// covers reports whether key is faked. Caller must hold f.mu.
func (f *fakeState) covers(key Key) bool {
	if f.only == nil {
		return true
	}
	for _, k := range f.only {
		if k == key {
			return true
		}
		if k.IsPattern() && matchesPattern(key, k) {
			return true
		}
	}
	return false
}
