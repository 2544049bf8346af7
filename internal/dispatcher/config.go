package dispatcher

// Default user-facing messages. Both accept '&'-style codes and are decoded
// before sending.
const (
	// DefaultInternalErrorMessage is sent when a handler faults.
	DefaultInternalErrorMessage = "&cAn internal error occurred while attempting to perform this command"

	// DefaultCapabilityMessageFormat is sent when the sender does not
	// satisfy the descriptor's capability; the verb argument is the
	// capability name.
	DefaultCapabilityMessageFormat = "&cThis command must be sent by a %s"
)

// Config holds dispatcher configuration options.
type Config struct {
	// EnableMetrics enables per-command dispatch statistics.
	EnableMetrics bool

	// RecoverFromPanic contains handler panics as faults instead of letting
	// them unwind into the host.
	RecoverFromPanic bool

	// InternalErrorMessage overrides the message sent on a handler fault.
	InternalErrorMessage string

	// CapabilityMessageFormat overrides the capability rejection format.
	// It must contain a single %s verb for the capability name.
	CapabilityMessageFormat string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics:           false,
		RecoverFromPanic:        true,
		InternalErrorMessage:    DefaultInternalErrorMessage,
		CapabilityMessageFormat: DefaultCapabilityMessageFormat,
	}
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithInternalErrorMessage returns a copy of the config with the fault
// message set.
func (c Config) WithInternalErrorMessage(msg string) Config {
	c.InternalErrorMessage = msg
	return c
}
