package event

import "github.com/dshills/herald/internal/event/listener"

// Registrar is the registration surface handed to a Subscriber.
type Registrar interface {
	Listen(key any, ref listener.Ref, opts ...ListenOption) error
}

// Subscriber registers several listeners at once, usually bound to its
// own methods:
//
//	func (s *Audit) Subscribe(r event.Registrar) error {
//	    if err := r.Listen("user.login", listener.Func(s.onLogin)); err != nil {
//	        return err
//	    }
//	    return r.Listen(event.TypeOf[OrderPlaced](), listener.Func(s.onOrder))
//	}
type Subscriber interface {
	Subscribe(r Registrar) error
}

// SubscriberFunc is a function adapter for Subscriber.
type SubscriberFunc func(r Registrar) error

// Subscribe implements the Subscriber interface.
func (f SubscriberFunc) Subscribe(r Registrar) error {
	return f(r)
}
