package topic

import (
	"slices"
	"sync"
)

// Matcher keeps a set of wildcard patterns in registration order and finds
// the ones matching a concrete event name.
// It is safe for concurrent use.
type Matcher struct {
	mu       sync.RWMutex
	patterns []Topic
}

// NewMatcher creates a new, empty matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Add appends a pattern to the matcher.
// Returns false if the pattern is empty or already present; a pattern that
// is already present keeps its original position.
func (m *Matcher) Add(pattern Topic) bool {
	if pattern == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if slices.Contains(m.patterns, pattern) {
		return false
	}
	m.patterns = append(m.patterns, pattern)
	return true
}

// Remove removes a pattern. Only the byte-identical pattern is removed.
// Returns false if the pattern was not present.
func (m *Matcher) Remove(pattern Topic) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.Index(m.patterns, pattern)
	if i < 0 {
		return false
	}
	m.patterns = slices.Delete(m.patterns, i, i+1)
	return true
}

// Has returns true if the pattern is present.
func (m *Matcher) Has(pattern Topic) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Contains(m.patterns, pattern)
}

// Match returns every pattern matching name, in registration order.
func (m *Matcher) Match(name Topic) []Topic {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []Topic
	for _, p := range m.patterns {
		if name.Matches(p) {
			matches = append(matches, p)
		}
	}
	return matches
}

// Patterns returns a copy of all patterns in registration order.
func (m *Matcher) Patterns() []Topic {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.patterns)
}

// Count returns the number of patterns.
func (m *Matcher) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.patterns)
}
