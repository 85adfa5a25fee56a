// Package topic provides event names, wildcard patterns and pattern matching
// for the event manager.
//
// # Names
//
// Event names are free-form strings. Dot notation is conventional but has no
// special meaning:
//
//	user.registered
//	order.placed
//	OrderPlaced
//
// # Wildcards
//
// A name containing "*" is a pattern. "*" matches any run of characters,
// dots included, and the whole name must match the whole pattern:
//
//	user.*        matches user.registered, user.login, user.profile.updated
//	*.placed      matches order.placed (not order.placed.late)
//	*             matches everything
//
// # Usage
//
//	m := topic.NewMatcher()
//	m.Add(topic.Topic("user.*"))
//	m.Add(topic.Topic("*"))
//
//	matches := m.Match(topic.Topic("user.login"))
//	// matches == [user.* *], in registration order
package topic
