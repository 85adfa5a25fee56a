package app

import (
	"errors"

	"github.com/dshills/herald/internal/config"
	"github.com/dshills/herald/internal/event"
)

// CheckExpectations asserts every configured expectation against the
// fake record and returns all failures joined.
func (a *App) CheckExpectations() error {
	var errs []error
	for i, x := range a.cfg.Expect {
		if err := a.check(x); err != nil {
			errs = append(errs, &ExpectationError{Index: i, Event: x.Event, Err: err})
		}
	}
	return errors.Join(errs...)
}

func (a *App) check(x config.ExpectConfig) error {
	var preds []func(any) bool
	if x.Field != "" {
		preds = append(preds, fieldEquals(x.Field, x.Equals))
	}

	switch {
	case x.Absent:
		return a.manager.AssertNotDispatched(x.Event, preds...)
	case x.Times > 0:
		return a.manager.AssertDispatchedTimes(x.Event, x.Times, preds...)
	default:
		return a.manager.AssertDispatched(x.Event, preds...)
	}
}

// fieldEquals matches messages whose payload has field. When want is
// non-empty the field's string form must equal it.
func fieldEquals(field, want string) func(any) bool {
	return func(o any) bool {
		var msg event.Message
		switch m := o.(type) {
		case event.Message:
			msg = m
		case *event.Message:
			msg = *m
		default:
			return false
		}
		r := msg.Get(field)
		return r.Exists() && (want == "" || r.String() == want)
	}
}
