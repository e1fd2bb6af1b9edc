package authflow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFlowBusy rejects a re-entrant initialize/submit; a flow instance is one
// in-flight conversation, concurrent calls are not queued.
var ErrFlowBusy = errors.New("flow busy: a call is already in flight")

// ErrFlowTerminal rejects any submission after the flow reached a terminal
// status.
var ErrFlowTerminal = errors.New("flow already reached a terminal status")

// ErrNotAwaitingInput rejects a submit issued while the flow is not waiting
// for authenticator input.
var ErrNotAwaitingInput = errors.New("flow is not awaiting authenticator input")

// ErrCompletionFailed is the single generic failure reported for both
// server-declared failure statuses; they are deliberately not distinguished.
var ErrCompletionFailed = errors.New("authentication flow failed")

// ErrNoAuthenticators reports a protocol invariant violation: a non-terminal
// step that requires authenticators offered none (after deny-list filtering).
var ErrNoAuthenticators = errors.New("flow step offers no usable authenticators")

// ErrPasskeyChainExceeded aborts a run of consecutive passkey steps that
// exceeds the configured maximum; a conforming service never produces one.
var ErrPasskeyChainExceeded = errors.New("consecutive passkey steps exceeded the chain limit")

// InitError reports a failed initialize call; the flow never started.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize flow: %v", e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// ValidationError reports required fields missing from a submission. It is
// raised locally, before any network call.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// UnknownAuthenticatorError reports a submission naming an authenticator the
// current step does not offer.
type UnknownAuthenticatorError struct {
	AuthenticatorID string
}

func (e *UnknownAuthenticatorError) Error() string {
	return fmt.Sprintf("authenticator %q is not offered by the current step", e.AuthenticatorID)
}
