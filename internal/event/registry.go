package event

import (
	"cmp"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/herald/internal/event/listener"
	"github.com/dshills/herald/internal/event/topic"
)

// Entry is one registered listener.
type Entry struct {
	// ID uniquely identifies the registration.
	ID string

	// Key is the exact key or wildcard pattern the listener was registered under.
	Key Key

	// Ref is the registered listener reference.
	Ref listener.Ref

	// Priority orders listeners; higher runs first.
	Priority int
}

// Registry stores listener entries by exact key and by wildcard pattern.
// It is thread-safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	exact    map[Key][]Entry
	patterns map[topic.Topic][]Entry
	matcher  *topic.Matcher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		exact:    make(map[Key][]Entry),
		patterns: make(map[topic.Topic][]Entry),
		matcher:  topic.NewMatcher(),
	}
}

// Add appends an entry for key. Pattern keys go to the pattern table.
// Registering the same reference twice yields two entries.
func (r *Registry) Add(key Key, ref listener.Ref, priority int) Entry {
	e := Entry{
		ID:       uuid.NewString(),
		Key:      key,
		Ref:      ref,
		Priority: priority,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if key.IsPattern() {
		p := topic.Topic(key.name)
		r.patterns[p] = append(r.patterns[p], e)
		r.matcher.Add(p)
		return e
	}

	r.exact[key] = append(r.exact[key], e)
	return e
}

// Remove deletes every exact entry for key and, for named keys, every
// pattern entry whose pattern is byte-identical to the name.
// Returns the number of entries removed.
func (r *Registry) Remove(key Key) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := len(r.exact[key])
	delete(r.exact, key)

	if key.IsNamed() {
		p := topic.Topic(key.name)
		if entries, ok := r.patterns[p]; ok {
			removed += len(entries)
			delete(r.patterns, p)
			r.matcher.Remove(p)
		}
	}

	return removed
}

// Match returns the entries an occurrence with key dispatches to: exact
// entries, then the entries of every matching pattern in registration
// order, stable-sorted by descending priority.
// Returns a copy to prevent modification during iteration.
func (r *Registry) Match(key Key) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exact := r.exact[key]
	patterns := r.matcher.Match(topic.Topic(key.Name()))
	if len(exact) == 0 && len(patterns) == 0 {
		return nil
	}

	all := make([]Entry, 0, len(exact))
	all = append(all, exact...)
	for _, p := range patterns {
		all = append(all, r.patterns[p]...)
	}

	slices.SortStableFunc(all, func(a, b Entry) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	return all
}

// Has reports whether key has listeners. For a pattern key this checks
// the pattern itself; otherwise whether a dispatch of key would match
// anything.
func (r *Registry) Has(key Key) bool {
	if key.IsPattern() {
		r.mu.RLock()
		defer r.mu.RUnlock()
		return r.matcher.Has(topic.Topic(key.name))
	}
	return len(r.Match(key)) > 0
}

// Count returns the total number of entries.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, entries := range r.exact {
		n += len(entries)
	}
	for _, entries := range r.patterns {
		n += len(entries)
	}
	return n
}

// Keys returns every exact key and pattern with registered entries.
// Patterns come last, in registration order.
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]Key, 0, len(r.exact)+r.matcher.Count())
	for k := range r.exact {
		keys = append(keys, k)
	}
	for _, p := range r.matcher.Patterns() {
		keys = append(keys, Name(p.String()))
	}
	return keys
}
