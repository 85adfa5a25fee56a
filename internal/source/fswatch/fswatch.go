// Package fswatch turns file-system notifications into event occurrences.
//
// Every notification is dispatched as an event.Message named
// "<prefix>.<op>" (for example "fs.create" or "fs.write") whose JSON
// payload carries the path:
//
//	{"path":"/srv/in/a.csv","name":"a.csv","op":"create","at":"2026-01-02T15:04:05.999Z"}
//
// A notification carrying several operations is dispatched once per
// operation. Listener failures are logged and counted; they never stop
// the watch loop.
package fswatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/dshills/herald/internal/event"
	"github.com/dshills/herald/internal/event/topic"
)

// DefaultPrefix is the default occurrence name prefix.
const DefaultPrefix = "fs"

// Errors for the file-system source.
var (
	// ErrSourceClosed is returned when operating on a closed source.
	ErrSourceClosed = errors.New("fswatch source is closed")

	// ErrPathNotExist is returned when watching a path that doesn't exist.
	ErrPathNotExist = errors.New("path does not exist")
)

// Dispatcher receives the occurrences produced by a Source.
// *event.Manager implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, occurrence any) error
}

// Source watches paths and dispatches their notifications.
type Source struct {
	mu sync.Mutex

	dispatcher Dispatcher
	watcher    *fsnotify.Watcher

	// Configuration
	prefix       string
	ignoreHidden bool
	logger       *zap.Logger

	// Tracked paths
	paths map[string]bool

	// Stats
	dispatched atomic.Int64
	failed     atomic.Int64
	errors     atomic.Int64

	closed bool
}

// Option configures a Source.
type Option func(*Source)

// WithPrefix sets the occurrence name prefix. Defaults to DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithIgnoreHidden skips notifications for dot files.
func WithIgnoreHidden(ignore bool) Option {
	return func(s *Source) {
		s.ignoreHidden = ignore
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a source dispatching to d.
func New(d Dispatcher, opts ...Option) (*Source, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	s := &Source{
		dispatcher: d,
		watcher:    fsw,
		prefix:     DefaultPrefix,
		logger:     zap.NewNop(),
		paths:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Add starts watching path. Directories are watched non-recursively.
func (s *Source) Add(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSourceClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}
	if s.paths[absPath] {
		return nil
	}

	if err := s.watcher.Add(absPath); err != nil {
		return err
	}
	s.paths[absPath] = true
	s.logger.Debug("watching path", zap.String("path", absPath))
	return nil
}

// Run dispatches notifications until ctx is done or the source is closed.
// It returns nil when ctx is cancelled.
func (s *Source) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case fsEvent, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			s.handle(ctx, fsEvent)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}
			s.errors.Add(1)
			s.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// handle converts and dispatches one fsnotify event.
func (s *Source) handle(ctx context.Context, fsEvent fsnotify.Event) {
	if s.ignoreHidden {
		if base := filepath.Base(fsEvent.Name); len(base) > 0 && base[0] == '.' {
			return
		}
	}

	at := time.Now()
	for _, op := range opNames(fsEvent.Op) {
		msg, err := s.message(fsEvent.Name, op, at)
		if err != nil {
			s.errors.Add(1)
			s.logger.Warn("build occurrence", zap.String("path", fsEvent.Name), zap.Error(err))
			continue
		}

		if err := s.dispatcher.Dispatch(ctx, msg); err != nil {
			s.failed.Add(1)
			s.logger.Warn("dispatch failed",
				zap.String("event", msg.Name),
				zap.String("path", fsEvent.Name),
				zap.Error(err),
			)
			continue
		}
		s.dispatched.Add(1)
	}
}

// message builds the occurrence for one operation on path.
func (s *Source) message(path, op string, at time.Time) (event.Message, error) {
	payload, err := sjson.Set("", "path", path)
	if err != nil {
		return event.Message{}, err
	}
	if payload, err = sjson.Set(payload, "name", filepath.Base(path)); err != nil {
		return event.Message{}, err
	}
	if payload, err = sjson.Set(payload, "op", op); err != nil {
		return event.Message{}, err
	}
	if payload, err = sjson.Set(payload, "at", at.UTC().Format(time.RFC3339Nano)); err != nil {
		return event.Message{}, err
	}
	return event.NewMessage(topic.Join(s.prefix, op).String(), payload), nil
}

// opNames returns the names of the operations set in op, in a fixed order.
func opNames(op fsnotify.Op) []string {
	var names []string
	if op.Has(fsnotify.Create) {
		names = append(names, "create")
	}
	if op.Has(fsnotify.Write) {
		names = append(names, "write")
	}
	if op.Has(fsnotify.Remove) {
		names = append(names, "remove")
	}
	if op.Has(fsnotify.Rename) {
		names = append(names, "rename")
	}
	if op.Has(fsnotify.Chmod) {
		names = append(names, "chmod")
	}
	return names
}

// Close stops watching. Run returns once the underlying watcher is closed.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.watcher.Close()
}

// Stats contains statistics for a source.
type Stats struct {
	// WatchedPaths is the number of watched paths.
	WatchedPaths int

	// Dispatched is the number of occurrences dispatched successfully.
	Dispatched int64

	// Failed is the number of dispatches that returned an error.
	Failed int64

	// Errors is the number of watcher errors.
	Errors int64
}

// Stats returns source statistics.
func (s *Source) Stats() Stats {
	s.mu.Lock()
	n := len(s.paths)
	s.mu.Unlock()

	return Stats{
		WatchedPaths: n,
		Dispatched:   s.dispatched.Load(),
		Failed:       s.failed.Load(),
		Errors:       s.errors.Load(),
	}
}
