package topic

import (
	"strings"

	"github.com/tidwall/match"
)

// Topic is an event name or a wildcard pattern over event names.
// Examples: "user.registered", "order.placed", "user.*", "*".
type Topic string

const (
	// Wildcard matches any run of characters, separators included.
	Wildcard = "*"

	// Separator is the conventional segment separator in event names.
	// It has no special meaning to pattern matching.
	Separator = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// IsWildcard returns true if the topic contains a wildcard and must be
// matched rather than compared.
func (t Topic) IsWildcard() bool {
	return strings.Contains(string(t), Wildcard)
}

// Matches returns true if the whole of t matches the whole of pattern.
//
// In the pattern, "*" matches any run of characters (including none and
// including separators) and "?" matches exactly one character. Every other
// character matches itself. A pattern without wildcards matches only the
// identical name.
func (t Topic) Matches(pattern Topic) bool {
	if !pattern.IsWildcard() {
		return t == pattern
	}
	return match.Match(string(t), string(pattern))
}

// Join joins segments with the separator.
//
// Example: Join("fs", "create") -> "fs.create"
func Join(segments ...string) Topic {
	return Topic(strings.Join(segments, Separator))
}
