package dispatcher

import "github.com/arlenmoss/herald/internal/host"

// Request describes one inbound dispatch as seen by hooks.
type Request struct {
	// ID is a unique trace identifier for this dispatch.
	ID string

	// Sender is the issuing actor.
	Sender host.Sender

	// Label is the top-level command name as received from the host.
	Label string

	// Args is the raw argument list, before subcommand trimming.
	Args []string
}

// PreDispatchHook runs before matching. Returning false cancels the
// dispatch; a cancelled request is reported handled.
type PreDispatchHook interface {
	PreDispatch(req *Request) bool
}

// PostDispatchHook observes a finished dispatch. err is non-nil only for
// OutcomeFaulted.
type PostDispatchHook interface {
	PostDispatch(req *Request, outcome Outcome, err error)
}

// PreDispatchFunc adapts a function to PreDispatchHook.
type PreDispatchFunc func(req *Request) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(req *Request) bool { return f(req) }

// PostDispatchFunc adapts a function to PostDispatchHook.
type PostDispatchFunc func(req *Request, outcome Outcome, err error)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(req *Request, outcome Outcome, err error) {
	f(req, outcome, err)
}
