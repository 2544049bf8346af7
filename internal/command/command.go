package command

import (
	"strings"

	"github.com/arlenmoss/herald/internal/host"
)

// DefaultPermissionMessage is sent on a permission denial when the
// registering metadata does not override it.
const DefaultPermissionMessage = "You do not have permission to use that command"

// Handler is the callable a descriptor invokes once a request has passed the
// capability and permission gates. args holds the tokens remaining after the
// matched identifier's subcommand path has been trimmed.
//
// A non-nil return value is forwarded to the chat renderer; a nil value
// produces no message. A returned error (or a panic) is contained by the
// dispatcher and reported to the sender as an internal fault.
type Handler func(sender host.Sender, args []string) (any, error)

// Identifier is an ordered token sequence naming a command or subcommand
// path, e.g. {"team", "create"}. The first token is the root, matched
// against the host's top-level command name.
type Identifier []string

// Root returns the first token.
func (id Identifier) Root() string {
	if len(id) == 0 {
		return ""
	}
	return id[0]
}

// String joins the tokens with spaces.
func (id Identifier) String() string {
	return strings.Join(id, " ")
}

// Equal reports whether two identifiers hold the same token sequence.
func (id Identifier) Equal(other Identifier) bool {
	if len(id) != len(other) {
		return false
	}
	for i := range id {
		if id[i] != other[i] {
			return false
		}
	}
	return true
}

// Metadata is the declarative registration record attached to a handler:
// the identifiers it answers to and the constraints on its senders.
type Metadata struct {
	// Cmd is the primary identifier string. It may contain spaces to name a
	// subcommand path ("team create"). Required.
	Cmd string

	// Aliases are additional identifier strings, functionally equivalent to
	// Cmd at match time. Blank aliases are ignored.
	Aliases []string

	// Permissions are the permission nodes the sender must hold, checked in
	// declaration order. Empty means unrestricted.
	Permissions []string

	// PermissionMessage is sent when a permission check fails. It may use
	// '&'-prefixed style codes. Empty selects DefaultPermissionMessage.
	PermissionMessage string

	// Capability is the minimal sender capability. Nil selects Any.
	Capability Capability
}

// Descriptor is an immutable registration record: identifiers, constraints,
// and the handler they route to. Descriptors are compared by identity; two
// descriptors with identical content are distinct registrations.
type Descriptor struct {
	identifiers       []Identifier
	permissions       []string
	permissionMessage string
	capability        Capability
	handler           Handler
}

// New builds a descriptor from a handler and its metadata.
//
// It fails with ErrInvalidHandler for a nil handler and ErrInvalidIdentifier
// when the primary identifier is blank after trimming. Aliases that are
// blank are dropped; identifier sequences that duplicate an earlier one are
// collapsed.
func New(h Handler, meta Metadata) (*Descriptor, error) {
	if h == nil {
		return nil, ErrInvalidHandler
	}
	if strings.TrimSpace(meta.Cmd) == "" {
		return nil, ErrInvalidIdentifier
	}

	ids := []Identifier{Identifier(strings.Fields(meta.Cmd))}
	for _, alias := range meta.Aliases {
		if strings.TrimSpace(alias) == "" {
			continue
		}
		id := Identifier(strings.Fields(alias))
		if !containsIdentifier(ids, id) {
			ids = append(ids, id)
		}
	}

	capability := meta.Capability
	if capability == nil {
		capability = Any()
	}
	message := meta.PermissionMessage
	if message == "" {
		message = DefaultPermissionMessage
	}

	return &Descriptor{
		identifiers:       ids,
		permissions:       append([]string(nil), meta.Permissions...),
		permissionMessage: message,
		capability:        capability,
		handler:           h,
	}, nil
}

func containsIdentifier(ids []Identifier, id Identifier) bool {
	for _, existing := range ids {
		if existing.Equal(id) {
			return true
		}
	}
	return false
}

// Identifiers returns a copy of the descriptor's identifier sequences. The
// first entry is the primary identifier.
func (d *Descriptor) Identifiers() []Identifier {
	out := make([]Identifier, len(d.identifiers))
	copy(out, d.identifiers)
	return out
}

// Permissions returns a copy of the required permission nodes in
// declaration order.
func (d *Descriptor) Permissions() []string {
	return append([]string(nil), d.permissions...)
}

// PermissionMessage returns the denial message, undecoded.
func (d *Descriptor) PermissionMessage() string {
	return d.permissionMessage
}

// Capability returns the required sender capability.
func (d *Descriptor) Capability() Capability {
	return d.capability
}

// WithIdentifiers returns a copy of the descriptor restricted to the given
// identifier subset. The dispatcher uses this after dropping identifiers
// whose root tokens did not resolve against the host command table.
func (d *Descriptor) WithIdentifiers(ids []Identifier) *Descriptor {
	clone := *d
	clone.identifiers = make([]Identifier, len(ids))
	copy(clone.identifiers, ids)
	return &clone
}

// Invoke runs the handler.
func (d *Descriptor) Invoke(sender host.Sender, args []string) (any, error) {
	return d.handler(sender, args)
}
