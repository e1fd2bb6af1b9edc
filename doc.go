// Package authflow drives a multi-step, server-directed authentication
// conversation against a remote flow service without a full-page redirect
// per step.
//
// The Controller is the engine: it interprets each flow response, decides
// which authenticator to act on next, and collapses the two hard step kinds
// into ordinary blocking calls. Redirect steps complete through a child
// browsing context raced by the redirect package; passkey steps complete
// through the platform credential ceremony wrapped by the passkey package,
// with consecutive passkey steps chained without surfacing intermediate
// state.
//
// Transport is pluggable: the controller depends on the Initializer and
// Submitter contracts, satisfied by the transport package for HTTP or by any
// test double. Rendering of steps and fields is out of scope; a StepView
// carries everything a renderer needs.
package authflow
