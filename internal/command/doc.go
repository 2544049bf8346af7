// Package command defines the descriptor model for registered command
// handlers.
//
// A Descriptor is an immutable record binding a set of identifier token
// sequences (one primary, any number of aliases) to a handler, together
// with the permission nodes the sender must hold, the message sent on a
// permission denial, and the minimal sender capability the handler accepts.
//
// Identifiers may span multiple tokens ("team create"); at dispatch time the
// longest matching identifier wins and its subcommand tokens are trimmed
// from the argument list before the handler runs.
package command
