// Package browser implements the production redirect Window: it opens the
// system browser at the identity provider URL and receives the completion
// callback on a loopback endpoint listener. The browser tab's address bar is
// not readable from the host process, so Location always reports
// redirect.ErrLocationUnavailable and the callback listener is this Window's
// effective detection channel.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/embedid/authflow/redirect"
	"github.com/embedid/authflow/redirect/endpoint"
)

// Opener opens system browser windows backed by loopback callback listeners.
type Opener struct {
	localRedirectURI bool
}

// Option customises an Opener.
type Option func(*Opener)

// WithLocalRedirectURI rewrites the redirect_uri query parameter of the
// opened URL to the loopback callback listener. Use it when the flow service
// allows loopback redirect URIs for native clients.
func WithLocalRedirectURI() Option {
	return func(o *Opener) {
		o.localRedirectURI = true
	}
}

// New creates an Opener.
func New(options ...Option) *Opener {
	ret := &Opener{}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Open starts a callback listener, launches the system browser at rawURL and
// returns the resulting Window.
func (o *Opener) Open(_ context.Context, rawURL string) (redirect.Window, error) {
	ep, err := endpoint.New()
	if err != nil {
		return nil, err
	}
	if o.localRedirectURI {
		if rawURL, err = overrideRedirectURI(rawURL, ep.CallbackURL()); err != nil {
			_ = ep.Close()
			return nil, err
		}
	}
	cmd := openCommand(rawURL)
	if err := cmd.Start(); err != nil {
		_ = ep.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return &window{endpoint: ep, cmd: cmd}, nil
}

// openCommand returns the platform command that opens a URL in the default
// browser.
func openCommand(rawURL string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return exec.Command("xdg-open", rawURL)
	}
}

func overrideRedirectURI(rawURL, callbackURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse redirect URL: %w", err)
	}
	query := parsed.Query()
	query.Set("redirect_uri", callbackURL)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

type window struct {
	endpoint  *endpoint.Endpoint
	cmd       *exec.Cmd
	closed    atomic.Bool
	closeOnce sync.Once
}

func (w *window) SourceID() string { return w.endpoint.ID }
func (w *window) Origin() string   { return w.endpoint.Origin() }

// Location is never readable for an external browser tab.
func (w *window) Location() (string, error) {
	return "", redirect.ErrLocationUnavailable
}

func (w *window) Closed() bool {
	return w.closed.Load()
}

func (w *window) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.closed.Store(true)
		if w.cmd != nil && w.cmd.Process != nil {
			_ = w.cmd.Process.Kill()
		}
		err = w.endpoint.Close()
	})
	return err
}

func (w *window) Messages() <-chan redirect.Message {
	return w.endpoint.Messages()
}
