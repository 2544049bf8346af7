package command

import "github.com/arlenmoss/herald/internal/host"

// Capability describes the minimal sender shape a handler accepts.
//
// It is the Go rendering of an "is the sender an instance of X" check: a
// named predicate over concrete sender types. Handlers that accept any
// sender use Any.
type Capability interface {
	// Name returns a short display name used in rejection messages
	// (e.g. "console", "player").
	Name() string

	// Satisfies reports whether the sender meets this capability.
	Satisfies(s host.Sender) bool
}

// anyCapability accepts every sender.
type anyCapability struct{}

func (anyCapability) Name() string                 { return "sender" }
func (anyCapability) Satisfies(_ host.Sender) bool { return true }

// Any returns the capability satisfied by every sender.
func Any() Capability {
	return anyCapability{}
}

// typeCapability is satisfied by senders assignable to T.
type typeCapability[T any] struct {
	name string
}

func (c typeCapability[T]) Name() string { return c.name }

func (c typeCapability[T]) Satisfies(s host.Sender) bool {
	_, ok := any(s).(T)
	return ok
}

// Of returns a capability satisfied by senders whose concrete type is
// assignable to T. T is typically a sender interface or pointer type:
//
//	command.Of[*console.Sender]("console")
func Of[T any](name string) Capability {
	return typeCapability[T]{name: name}
}

// Func adapts a predicate to a Capability.
type Func struct {
	// CapName is the display name for rejection messages.
	CapName string

	// Check reports whether the sender qualifies. A nil Check accepts all.
	Check func(s host.Sender) bool
}

// Name implements Capability.Name.
func (f Func) Name() string { return f.CapName }

// Satisfies implements Capability.Satisfies.
func (f Func) Satisfies(s host.Sender) bool {
	if f.Check == nil {
		return true
	}
	return f.Check(s)
}
