package redirect

import "context"

// Message is a completion notification delivered by a child browsing
// context. Either Code/State or Error is populated. Source identifies the
// sending context and must match the opened window before the message is
// trusted; Origin must match one of the coordinator's allowed origins.
type Message struct {
	Origin string
	Source string
	Code   string
	State  string
	Error  string
}

// Window is an open child browsing context.
type Window interface {
	// SourceID identifies this context; messages from other sources are noise.
	SourceID() string
	// Origin is the window's own origin, used as the trust fallback when no
	// expected origin is configured.
	Origin() string
	// Location returns the window's current URL. A failed read (cross-origin
	// navigation) returns ErrLocationUnavailable and is expected.
	Location() (string, error)
	// Closed reports whether the user dismissed the window.
	Closed() bool
	// Close tears the window down; it must be safe to call more than once.
	Close() error
	// Messages delivers cross-context messages observed by the host.
	Messages() <-chan Message
}

// Opener creates a Window navigated to the given URL.
type Opener interface {
	Open(ctx context.Context, rawURL string) (Window, error)
}
