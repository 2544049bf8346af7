package command

import "errors"

// Descriptor construction errors.
var (
	// ErrInvalidHandler indicates the handler is nil or has no callable body.
	ErrInvalidHandler = errors.New("command: invalid handler")

	// ErrInvalidIdentifier indicates the primary identifier is blank.
	ErrInvalidIdentifier = errors.New("command: blank primary identifier")
)
