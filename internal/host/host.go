package host

// Sender is an actor that can issue commands and receive messages.
//
// Concrete senders carry additional capabilities (a console operator, an
// in-world actor, a remote session); handlers declare the minimal capability
// they accept via command.Capability, checked with a type assertion against
// the concrete sender.
type Sender interface {
	// Name returns a display name for the sender.
	Name() string

	// HasPermission reports whether the sender holds the permission node.
	HasPermission(node string) bool

	// SendMessage delivers a single message line to the sender.
	// The text may contain section-sign style codes; rendering them is the
	// sender's concern.
	SendMessage(text string)
}

// Executor receives dispatch requests for a bound raw command.
type Executor interface {
	// OnCommand handles one inbound request. It returns false only when no
	// registered descriptor matched, so the host can apply its own fallback.
	OnCommand(sender Sender, label string, args []string) bool
}

// RawCommand is one entry in the host's top-level command table.
type RawCommand interface {
	// Name returns the top-level command name.
	Name() string

	// Bind attaches an executor to this command. Rebinding the same
	// executor is a no-op; hosts deliver raw invocations to the bound
	// executor.
	Bind(e Executor)

	// Executor returns the currently bound executor, or nil.
	Executor() Executor
}

// CommandTable resolves top-level command names to raw command entries.
//
// Only commands the host has declared exist in the table; registering a
// handler whose root token has no table entry drops that identifier.
type CommandTable interface {
	// Resolve looks up a root token. The lookup is case-insensitive.
	Resolve(root string) (RawCommand, bool)
}
