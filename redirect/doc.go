// Package redirect completes an OAuth-style code/state exchange inside a
// child browsing context, without navigating the host away from the flow.
//
// A Coordinator opens a Window at the identity provider's redirect URL and
// races two independent detection channels: a cross-context message channel
// and a URL poll channel. Whichever channel first extracts a completion wins
// a single-assignment latch; the other channel's findings are discarded, so
// exactly one submission ever results from one redirect attempt.
//
// The default production Window lives in the browser subpackage and pairs the
// system browser with a loopback callback listener from the endpoint
// subpackage. Tests drive in-process Windows through the same interface.
package redirect
