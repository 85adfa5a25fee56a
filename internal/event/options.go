package event

import (
	"go.uber.org/zap"

	"github.com/dshills/herald/internal/event/dispatch"
	"github.com/dshills/herald/internal/event/listener"
)

// Listener priorities. Any int is valid; higher runs first.
const (
	PriorityHigh   = 100
	PriorityNormal = 0
	PriorityLow    = -100
)

// Option configures a Manager.
type Option func(*managerConfig)

// managerConfig contains configuration for the manager.
type managerConfig struct {
	// resolver turns listener references into handlers.
	resolver listener.Resolver

	// logger receives debug records. Never nil.
	logger *zap.Logger

	// observer is notified after every dispatch.
	observer Observer

	// panicHandler is called when a handler panics.
	panicHandler dispatch.PanicHandler
}

// defaultManagerConfig returns the default configuration.
func defaultManagerConfig() managerConfig {
	return managerConfig{
		resolver: listener.DefaultResolver{},
		logger:   zap.NewNop(),
	}
}

// WithResolver sets the resolver used for listener and subscriber
// references, e.g. one backed by a dependency-injection container.
func WithResolver(r listener.Resolver) Option {
	return func(c *managerConfig) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithLogger sets the logger. The manager logs at debug level only.
func WithLogger(l *zap.Logger) Option {
	return func(c *managerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver sets an observer notified after every dispatch.
func WithObserver(o Observer) Option {
	return func(c *managerConfig) {
		c.observer = o
	}
}

// Panic describes a recovered listener panic.
type Panic = dispatch.Panic

// WithPanicHandler sets a callback invoked when a handler panics.
// The panic is still returned to the dispatch caller.
func WithPanicHandler(h func(Panic)) Option {
	return func(c *managerConfig) {
		c.panicHandler = h
	}
}

// ListenOption configures a single registration.
type ListenOption func(*listenConfig)

type listenConfig struct {
	priority int
}

// WithPriority sets the listener priority. Defaults to PriorityNormal.
func WithPriority(priority int) ListenOption {
	return func(c *listenConfig) {
		c.priority = priority
	}
}
