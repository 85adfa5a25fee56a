package event

import (
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/herald/internal/event/topic"
)

// Key identifies the exact listeners of an occurrence.
//
// A Key is either named (a plain string) or type-tagged (the dynamic type
// of a structured occurrence). Keys are comparable and can be used as map
// keys. Pointer types are normalised to their element type, so *T and T
// share one key.
type Key struct {
	name string
	typ  reflect.Type
}

// Name returns a named key.
func Name(name string) Key {
	return Key{name: name}
}

// TypeKey returns the type-tagged key for t.
func TypeKey(t reflect.Type) Key {
	t = deref(t)
	if t == nil {
		return Key{}
	}
	return Key{typ: t}
}

// TypeOf returns the type-tagged key for T.
func TypeOf[T any]() Key {
	return TypeKey(reflect.TypeOf((*T)(nil)).Elem())
}

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool {
	return k.name == "" && k.typ == nil
}

// IsNamed reports whether the key is a named key.
func (k Key) IsNamed() bool {
	return k.typ == nil
}

// IsPattern reports whether the key is a named key containing a wildcard.
func (k Key) IsPattern() bool {
	return k.typ == nil && topic.Topic(k.name).IsWildcard()
}

// Type returns the type of a type-tagged key, or nil for named keys.
func (k Key) Type() reflect.Type {
	return k.typ
}

// Name returns the string wildcard patterns are matched against: the name
// itself, or the Go name of the type.
func (k Key) Name() string {
	if k.typ == nil {
		return k.name
	}
	if n := k.typ.Name(); n != "" {
		return n
	}
	return k.typ.String()
}

// String returns a human-readable form of the key.
func (k Key) String() string {
	if k.typ == nil {
		return k.name
	}
	return k.typ.String()
}

// Namer is implemented by structured occurrences that dispatch under a
// name rather than under their type.
type Namer interface {
	EventName() string
}

// KeyOf derives the key of an occurrence or of a listen key.
//
//   - string: named key
//   - Key: returned as is
//   - reflect.Type: type-tagged key
//   - Namer: named key from EventName
//   - anything else: type-tagged key of its dynamic type
//
// Nil, empty names and zero keys return ErrInvalidKey. So do type-tagged
// keys of Namer types, which always dispatch under their name, and nil
// pointers to Namer types, whose name is unknown.
func KeyOf(v any) (Key, error) {
	var k Key
	switch x := v.(type) {
	case nil:
		return Key{}, ErrInvalidKey
	case string:
		k = Name(x)
	case Key:
		k = x
	case reflect.Type:
		k = TypeKey(x)
	case Namer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Key{}, fmt.Errorf("%w: nil %T", ErrInvalidKey, v)
		}
		name := x.EventName()
		if name == "" {
			return Key{}, fmt.Errorf("%w: %T has an empty EventName", ErrInvalidKey, v)
		}
		k = Name(name)
	default:
		k = TypeKey(reflect.TypeOf(v))
	}
	if k.IsZero() {
		return Key{}, ErrInvalidKey
	}
	if isNamer(k.typ) {
		return Key{}, fmt.Errorf("%w: %s dispatches under its EventName, listen by name", ErrInvalidKey, k.typ)
	}
	return k, nil
}

var namerType = reflect.TypeOf((*Namer)(nil)).Elem()

// isNamer reports whether values of t, or pointers to them, implement Namer.
func isNamer(t reflect.Type) bool {
	if t == nil {
		return false
	}
	return t.Implements(namerType) || (t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(namerType))
}

func deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Message is a named occurrence carrying a JSON payload.
//
// It is the occurrence produced by configuration-driven and file-system
// sources; Go code usually dispatches its own structured types instead.
type Message struct {
	// Name is the occurrence name, e.g. "user.login".
	Name string

	// Payload is a JSON document. Empty means no payload.
	Payload string
}

// NewMessage creates a message with the given name and JSON payload.
func NewMessage(name, payload string) Message {
	return Message{Name: name, Payload: payload}
}

// EventName implements Namer.
func (m Message) EventName() string {
	return m.Name
}

// Get returns the payload value at path, in gjson path syntax.
func (m Message) Get(path string) gjson.Result {
	return gjson.Get(m.Payload, path)
}

// With returns a copy of the message with value set at path.
func (m Message) With(path string, value any) (Message, error) {
	payload, err := sjson.Set(m.Payload, path, value)
	if err != nil {
		return m, err
	}
	m.Payload = payload
	return m, nil
}

// Valid reports whether the payload is empty or well-formed JSON.
func (m Message) Valid() bool {
	return m.Payload == "" || gjson.Valid(m.Payload)
}
