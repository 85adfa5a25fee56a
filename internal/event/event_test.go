package event_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/herald/internal/event"
)

type OrderPlaced struct {
	ID    int
	Total float64
}

type UserRegistered struct {
	Email string
}

type namedOccurrence struct{ name string }

func (n namedOccurrence) EventName() string { return n.name }

func TestKeyOf(t *testing.T) {
	tests := []struct {
		name      string
		in        any
		want      event.Key
		wantName  string
		wantNamed bool
	}{
		{"string", "user.login", event.Name("user.login"), "user.login", true},
		{"key", event.Name("x"), event.Name("x"), "x", true},
		{"value", OrderPlaced{ID: 1}, event.TypeOf[OrderPlaced](), "OrderPlaced", false},
		{"pointer", &OrderPlaced{ID: 1}, event.TypeOf[OrderPlaced](), "OrderPlaced", false},
		{"reflect type", reflect.TypeOf((**OrderPlaced)(nil)).Elem(), event.TypeOf[OrderPlaced](), "OrderPlaced", false},
		{"namer", namedOccurrence{name: "custom.event"}, event.Name("custom.event"), "custom.event", true},
		{"message", event.NewMessage("fs.create", `{}`), event.Name("fs.create"), "fs.create", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := event.KeyOf(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantName, got.Name())
			assert.Equal(t, tt.wantNamed, got.IsNamed())
		})
	}
}

func TestKeyOf_Invalid(t *testing.T) {
	for _, in := range []any{nil, "", event.Key{}, namedOccurrence{}} {
		_, err := event.KeyOf(in)
		assert.True(t, errors.Is(err, event.ErrInvalidKey), "KeyOf(%#v) error = %v", in, err)
	}
}

func TestKey_NamedAndTypeKeysDiffer(t *testing.T) {
	// A type's name used as a string is a different key from the type.
	assert.NotEqual(t, event.Name("OrderPlaced"), event.TypeOf[OrderPlaced]())
}

func TestKey_UnnamedType(t *testing.T) {
	k := event.TypeOf[[]string]()
	assert.Equal(t, "[]string", k.Name())
	assert.Equal(t, "[]string", k.String())
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "event_test.OrderPlaced", event.TypeOf[OrderPlaced]().String())
	assert.Equal(t, "user.*", event.Name("user.*").String())
}

func TestKey_IsPattern(t *testing.T) {
	assert.True(t, event.Name("user.*").IsPattern())
	assert.False(t, event.Name("user.login").IsPattern())
	assert.False(t, event.TypeOf[OrderPlaced]().IsPattern())
}

func TestMessage(t *testing.T) {
	m := event.NewMessage("user.login", `{"id":7,"user":{"name":"ada"}}`)
	assert.Equal(t, "user.login", m.EventName())
	assert.True(t, m.Valid())
	assert.Equal(t, int64(7), m.Get("id").Int())
	assert.Equal(t, "ada", m.Get("user.name").String())

	m2, err := m.With("user.admin", true)
	require.NoError(t, err)
	assert.True(t, m2.Get("user.admin").Bool())
	assert.False(t, m.Get("user.admin").Exists(), "With must not modify the receiver")

	assert.False(t, event.NewMessage("x", "{broken").Valid())
	assert.True(t, event.NewMessage("x", "").Valid())
}

type Shipment struct{ Carrier string }

func (s Shipment) EventName() string { return "shipment." + s.Carrier }

func TestKeyOf_NamerTypeKeysRejected(t *testing.T) {
	// A Namer always dispatches under its name, so a type key for it
	// could never be reached.
	for _, in := range []any{
		event.TypeOf[Shipment](),
		event.TypeOf[*Shipment](),
		reflect.TypeOf((*Shipment)(nil)).Elem(),
		event.TypeOf[event.Message](),
		event.Message{},
	} {
		_, err := event.KeyOf(in)
		assert.ErrorIs(t, err, event.ErrInvalidKey, "KeyOf(%v)", in)
	}

	k, err := event.KeyOf(Shipment{Carrier: "ups"})
	require.NoError(t, err)
	assert.Equal(t, event.Name("shipment.ups"), k)
}

func TestKeyOf_NilNamerPointer(t *testing.T) {
	for _, in := range []any{(*Shipment)(nil), (*event.Message)(nil), (*namedOccurrence)(nil)} {
		assert.NotPanics(t, func() {
			_, err := event.KeyOf(in)
			assert.ErrorIs(t, err, event.ErrInvalidKey, "KeyOf(%T)", in)
		})
	}

	// Nil pointers to plain types still carry their type.
	k, err := event.KeyOf((*OrderPlaced)(nil))
	require.NoError(t, err)
	assert.Equal(t, event.TypeOf[OrderPlaced](), k)
}
