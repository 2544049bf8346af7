package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrNilTable indicates the dispatcher was built without a host command
	// table.
	ErrNilTable = errors.New("dispatcher: nil host command table")

	// ErrHandlerPanic wraps a panic recovered from a handler invocation.
	ErrHandlerPanic = errors.New("dispatcher: handler panic")
)
