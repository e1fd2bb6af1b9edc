package authflow

// State is the controller's observable position in the flow.
type State int

const (
	// StateIdle precedes the first initialize call.
	StateIdle State = iota
	// StateInitializing covers the initialize round-trip.
	StateInitializing
	// StateAwaitingSelection waits for the caller to pick an authenticator
	// or supply input for the auto-selected one.
	StateAwaitingSelection
	// StateSubmitting covers a submit round-trip.
	StateSubmitting
	// StateRedirectPending covers an in-flight child-window completion.
	StateRedirectPending
	// StatePasskeyPending covers an in-flight credential ceremony, including
	// chained consecutive passkey steps.
	StatePasskeyPending
	// StateSuccess is terminal; the flow completed and Result holds the
	// returned auth data.
	StateSuccess
	// StateFailed is terminal; no further submission is valid.
	StateFailed
)

// Terminal reports whether no further submission is valid in this state.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateAwaitingSelection:
		return "awaiting-selection"
	case StateSubmitting:
		return "submitting"
	case StateRedirectPending:
		return "redirect-pending"
	case StatePasskeyPending:
		return "passkey-pending"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}
