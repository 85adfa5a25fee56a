package event

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/herald/internal/event/topic"
)

// Record is one occurrence captured in fake mode.
type Record struct {
	// ID uniquely identifies the record.
	ID string

	// Key is the derived key of the occurrence.
	Key Key

	// Occurrence is the dispatched value.
	Occurrence any

	// At is when the occurrence was dispatched.
	At time.Time
}

func newRecordID() string {
	return uuid.NewString()
}

func matchesPattern(key, pattern Key) bool {
	return topic.Topic(key.Name()).Matches(topic.Topic(pattern.name))
}

// Fake switches the manager into fake mode. Faked occurrences are recorded
// instead of dispatched and no listener runs for them. Fake mode cannot be
// left; replace the manager instead.
//
// With no arguments every occurrence is faked. Otherwise only occurrences
// whose key equals one of only, or whose name matches one of the patterns
// in only, are faked and all others dispatch normally. Invalid keys are
// ignored; if none is valid nothing is faked.
//
// Every call starts a new, empty log.
func (m *Manager) Fake(only ...any) {
	var keys []Key
	if len(only) > 0 {
		keys = make([]Key, 0, len(only))
	}
	for _, v := range only {
		if k, err := KeyOf(v); err == nil {
			keys = append(keys, k)
		}
	}

	m.fake.mu.Lock()
	m.fake.enabled = true
	m.fake.only = keys
	m.fake.records = nil
	m.fake.mu.Unlock()

	m.logger.Debug("fake mode enabled", zap.Int("only", len(keys)))
}

// IsFaking reports whether the manager is in fake mode.
func (m *Manager) IsFaking() bool {
	m.fake.mu.Lock()
	defer m.fake.mu.Unlock()
	return m.fake.enabled
}

// Dispatched returns a copy of the fake log in dispatch order.
func (m *Manager) Dispatched() []Record {
	m.fake.mu.Lock()
	defer m.fake.mu.Unlock()
	return slices.Clone(m.fake.records)
}

func (m *Manager) snapshot() ([]Record, error) {
	m.fake.mu.Lock()
	defer m.fake.mu.Unlock()
	if !m.fake.enabled {
		return nil, ErrNotFaking
	}
	return slices.Clone(m.fake.records), nil
}

// AssertDispatched returns nil if at least one recorded occurrence matches
// matcher and satisfies every predicate. The matcher may be:
//
//   - reflect.Type: the occurrence is an instance of the type (same type
//     after dereferencing pointers, or implements it for interface types)
//   - Key: the occurrence's key equals it
//   - string: the occurrence's key is the named key
//   - any other value: the occurrence is that value (same pointer, or
//     equal for comparable values)
//
// A failed assertion returns an *AssertionError.
func (m *Manager) AssertDispatched(matcher any, predicate ...func(any) bool) error {
	records, err := m.snapshot()
	if err != nil {
		return err
	}
	if n := countMatching(records, matcher, predicate); n == 0 {
		return &AssertionError{Matcher: describe(matcher), Want: "dispatched", Recorded: len(records)}
	}
	return nil
}

// AssertDispatchedTimes is like AssertDispatched but requires exactly
// times matching occurrences.
func (m *Manager) AssertDispatchedTimes(matcher any, times int, predicate ...func(any) bool) error {
	records, err := m.snapshot()
	if err != nil {
		return err
	}
	if n := countMatching(records, matcher, predicate); n != times {
		return &AssertionError{
			Matcher:  describe(matcher),
			Want:     "dispatched " + strconv.Itoa(times) + " times",
			Got:      n,
			Recorded: len(records),
		}
	}
	return nil
}

// AssertNotDispatched returns an *AssertionError if any recorded
// occurrence matches matcher and every predicate.
func (m *Manager) AssertNotDispatched(matcher any, predicate ...func(any) bool) error {
	records, err := m.snapshot()
	if err != nil {
		return err
	}
	if n := countMatching(records, matcher, predicate); n != 0 {
		return &AssertionError{Matcher: describe(matcher), Want: "not dispatched", Got: n, Recorded: len(records)}
	}
	return nil
}

// AssertNothingDispatched returns an *AssertionError if anything was recorded.
func (m *Manager) AssertNothingDispatched() error {
	records, err := m.snapshot()
	if err != nil {
		return err
	}
	if len(records) != 0 {
		return &AssertionError{Matcher: "any occurrence", Want: "not dispatched", Got: len(records), Recorded: len(records)}
	}
	return nil
}

// AssertDispatchedType asserts that an occurrence of type T (or *T) was
// recorded and satisfies every predicate.
func AssertDispatchedType[T any](m *Manager, predicate ...func(T) bool) error {
	preds := make([]func(any) bool, len(predicate))
	for i, p := range predicate {
		preds[i] = func(v any) bool {
			t, ok := as[T](v)
			return ok && p(t)
		}
	}
	return m.AssertDispatched(reflect.TypeOf((*T)(nil)).Elem(), preds...)
}

// as converts v to T, dereferencing a non-nil *T.
func as[T any](v any) (T, bool) {
	if t, ok := v.(T); ok {
		return t, true
	}
	if p, ok := v.(*T); ok && p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

func countMatching(records []Record, matcher any, predicate []func(any) bool) int {
	n := 0
	for _, r := range records {
		if !matches(r, matcher) {
			continue
		}
		if !slices.ContainsFunc(predicate, func(p func(any) bool) bool { return !p(r.Occurrence) }) {
			n++
		}
	}
	return n
}

func matches(r Record, matcher any) bool {
	switch mt := matcher.(type) {
	case nil:
		return false
	case reflect.Type:
		return instanceOf(r.Occurrence, mt)
	case Key:
		// A type key also matches Namer occurrences of that type, which
		// are recorded under their name.
		if t := mt.Type(); t != nil {
			return instanceOf(r.Occurrence, t)
		}
		return r.Key == mt
	case string:
		return r.Key == Name(mt)
	default:
		return same(r.Occurrence, matcher)
	}
}

func instanceOf(v any, t reflect.Type) bool {
	vt := reflect.TypeOf(v)
	if vt == nil {
		return false
	}
	if t.Kind() == reflect.Interface {
		return vt.Implements(t)
	}
	return deref(vt) == deref(t)
}

// same reports identity for pointers and equality for other comparable
// values. Values whose equality would panic never match.
func same(a, b any) (eq bool) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == nil || ta != tb || !ta.Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

func describe(matcher any) string {
	switch mt := matcher.(type) {
	case nil:
		return "<nil>"
	case reflect.Type:
		return mt.String()
	case Key:
		return strconv.Quote(mt.String())
	case string:
		return strconv.Quote(mt)
	default:
		return fmt.Sprintf("%T(%v)", matcher, matcher)
	}
}
