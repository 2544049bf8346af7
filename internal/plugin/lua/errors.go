package lua

import "errors"

var (
	// ErrStateClosed is returned by operations on a closed State.
	ErrStateClosed = errors.New("lua: state is closed")

	// ErrNotFunction is returned when a named global is not callable.
	ErrNotFunction = errors.New("lua: value is not a function")
)
