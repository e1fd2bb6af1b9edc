// Package schema defines the wire model exchanged with an embedded
// authentication flow service: sessions, steps, authenticators and the
// submission payloads sent back to the service.
//
// Enumerated fields (flow status, step type, prompt kind, message type) are
// closed types; unmarshalling rejects values the engine does not know how to
// handle so that protocol drift surfaces as an error rather than a silent
// zero value.
package schema
