package dispatcher

// Outcome is the terminal state of one dispatch.
type Outcome uint8

const (
	// OutcomeUnmatched indicates no registered identifier matched; the
	// request is reported unhandled to the host.
	OutcomeUnmatched Outcome = iota

	// OutcomeCancelled indicates a pre-dispatch hook cancelled the request.
	OutcomeCancelled

	// OutcomeRejected indicates the sender did not satisfy the descriptor's
	// capability.
	OutcomeRejected

	// OutcomeDenied indicates the sender lacked a required permission node.
	OutcomeDenied

	// OutcomeCompleted indicates the handler ran to completion.
	OutcomeCompleted

	// OutcomeFaulted indicates the handler returned an error or panicked.
	OutcomeFaulted
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeUnmatched:
		return "unmatched"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeRejected:
		return "rejected"
	case OutcomeDenied:
		return "denied"
	case OutcomeCompleted:
		return "completed"
	case OutcomeFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Handled reports whether the outcome is reported as handled to the host.
// Only an unmatched request propagates as unhandled.
func (o Outcome) Handled() bool {
	return o != OutcomeUnmatched
}
