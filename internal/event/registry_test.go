package event

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/herald/internal/event/listener"
)

func namedRef(name string) listener.Ref {
	return listener.FuncOf(name, func(context.Context, any) error { return nil })
}

func refNames(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Ref.String()
	}
	return names
}

func TestRegistry_Match_PriorityOrder(t *testing.T) {
	r := NewRegistry()
	r.Add(Name("user.login"), namedRef("low"), 0)
	r.Add(Name("user.login"), namedRef("high"), 100)
	r.Add(Name("user.login"), namedRef("mid"), 50)

	got := refNames(r.Match(Name("user.login")))
	want := []string{"high", "mid", "low"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Match() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Match_StableForEqualPriority(t *testing.T) {
	r := NewRegistry()
	r.Add(Name("x"), namedRef("first"), 0)
	r.Add(Name("*"), namedRef("pattern"), 0)
	r.Add(Name("x"), namedRef("second"), 0)

	// Exact entries come before pattern entries at equal priority.
	got := refNames(r.Match(Name("x")))
	want := []string{"first", "second", "pattern"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Match() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Match_PatternGroupsInRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Add(Name("user.*"), namedRef("user-a"), 0)
	r.Add(Name("*"), namedRef("all"), 0)
	r.Add(Name("user.*"), namedRef("user-b"), 0)
	r.Add(Name("order.*"), namedRef("order"), 0)

	got := refNames(r.Match(Name("user.login")))
	want := []string{"user-a", "user-b", "all"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Match() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Match_TypeKeyUsesTypeName(t *testing.T) {
	type Shipped struct{}

	r := NewRegistry()
	r.Add(TypeOf[Shipped](), namedRef("exact"), 0)
	r.Add(Name("Ship*"), namedRef("pattern"), 10)
	r.Add(Name("Shipped"), namedRef("named"), 20)

	got := refNames(r.Match(TypeOf[Shipped]()))
	want := []string{"pattern", "exact"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Match() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Match_None(t *testing.T) {
	r := NewRegistry()
	r.Add(Name("user.*"), namedRef("user"), 0)

	if got := r.Match(Name("order.placed")); got != nil {
		t.Errorf("Match() = %v, want nil", got)
	}
}

func TestRegistry_Add_DuplicatesAppend(t *testing.T) {
	r := NewRegistry()
	ref := namedRef("dup")
	e1 := r.Add(Name("x"), ref, 0)
	e2 := r.Add(Name("x"), ref, 0)

	if e1.ID == e2.ID {
		t.Error("duplicate registrations share an ID")
	}
	if got := len(r.Match(Name("x"))); got != 2 {
		t.Errorf("len(Match()) = %d, want 2", got)
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	r.Add(Name("user.login"), namedRef("exact"), 0)
	r.Add(Name("user.*"), namedRef("pattern"), 0)
	r.Add(Name("order.placed"), namedRef("other"), 0)

	if n := r.Remove(Name("user.login")); n != 1 {
		t.Errorf("Remove() = %d, want 1", n)
	}

	// The overlapping pattern is untouched.
	got := refNames(r.Match(Name("user.login")))
	if diff := cmp.Diff([]string{"pattern"}, got); diff != "" {
		t.Errorf("Match() after Remove mismatch (-want +got):\n%s", diff)
	}

	if n := r.Remove(Name("user.*")); n != 1 {
		t.Errorf("Remove(pattern) = %d, want 1", n)
	}
	if r.Has(Name("user.login")) {
		t.Error("Has(user.login) = true after removing everything")
	}
	if !r.Has(Name("order.placed")) {
		t.Error("Has(order.placed) = false, other keys must be unaffected")
	}
}

func TestRegistry_Remove_PatternDoesNotRemoveExact(t *testing.T) {
	r := NewRegistry()
	r.Add(Name("user.login"), namedRef("exact"), 0)
	r.Add(Name("user.*"), namedRef("pattern"), 0)

	r.Remove(Name("user.*"))

	got := refNames(r.Match(Name("user.login")))
	if diff := cmp.Diff([]string{"exact"}, got); diff != "" {
		t.Errorf("Match() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Remove_PatternReaddedGoesLast(t *testing.T) {
	r := NewRegistry()
	r.Add(Name("a*"), namedRef("a"), 0)
	r.Add(Name("*"), namedRef("all"), 0)
	r.Remove(Name("a*"))
	r.Add(Name("a*"), namedRef("a-again"), 0)

	got := refNames(r.Match(Name("abc")))
	if diff := cmp.Diff([]string{"all", "a-again"}, got); diff != "" {
		t.Errorf("Match() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_HasPattern(t *testing.T) {
	r := NewRegistry()
	r.Add(Name("user.*"), namedRef("p"), 0)

	if !r.Has(Name("user.*")) {
		t.Error("Has(user.*) = false")
	}
	if r.Has(Name("order.*")) {
		t.Error("Has(order.*) = true")
	}
}

func TestRegistry_CountAndKeys(t *testing.T) {
	r := NewRegistry()
	r.Add(Name("a"), namedRef("1"), 0)
	r.Add(Name("a"), namedRef("2"), 0)
	r.Add(Name("b.*"), namedRef("3"), 0)

	if r.Count() != 3 {
		t.Errorf("Count() = %d, want 3", r.Count())
	}

	keys := r.Keys()
	if len(keys) != 2 {
		t.Fatalf("len(Keys()) = %d, want 2", len(keys))
	}
	if keys[1] != Name("b.*") {
		t.Errorf("Keys()[1] = %v, want b.*", keys[1])
	}
}
