// Package endpoint runs a loopback HTTP listener that receives the identity
// provider callback and feeds it to the redirect coordinator's message
// channel. It is the host-side half of the browser Window.
package endpoint

import (
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/embedid/authflow/redirect"
)

// DefaultCallbackPath is the path the callback listener serves.
const DefaultCallbackPath = "/callback"

const completionPage = `<!DOCTYPE html><html><body>Authentication complete. You may close this window.</body></html>`

// Endpoint is a loopback callback listener bound to an ephemeral port.
type Endpoint struct {
	// ID identifies this listener as a message source.
	ID string
	// Port is the ephemeral port the listener is bound to.
	Port int

	path      string
	server    *http.Server
	messages  chan redirect.Message
	closeOnce sync.Once
}

// Option customises an Endpoint.
type Option func(*Endpoint)

// WithCallbackPath overrides the served callback path.
func WithCallbackPath(path string) Option {
	return func(e *Endpoint) {
		e.path = path
	}
}

// New binds a listener on 127.0.0.1 and starts serving the callback path.
func New(options ...Option) (*Endpoint, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to bind callback listener: %w", err)
	}
	ret := &Endpoint{
		ID:       uuid.New().String(),
		Port:     listener.Addr().(*net.TCPAddr).Port,
		path:     DefaultCallbackPath,
		messages: make(chan redirect.Message, 4),
	}
	for _, opt := range options {
		opt(ret)
	}
	mux := http.NewServeMux()
	mux.HandleFunc(ret.path, ret.handleCallback)
	ret.server = &http.Server{Handler: mux}
	go func() {
		_ = ret.server.Serve(listener)
	}()
	return ret, nil
}

// Origin is the listener's own origin.
func (e *Endpoint) Origin() string {
	return fmt.Sprintf("http://127.0.0.1:%d", e.Port)
}

// CallbackURL is the full URL the identity provider should redirect to.
func (e *Endpoint) CallbackURL() string {
	return e.Origin() + e.path
}

// Messages delivers received callbacks.
func (e *Endpoint) Messages() <-chan redirect.Message {
	return e.messages
}

// Close shuts the listener down; safe to call more than once.
func (e *Endpoint) Close() error {
	var err error
	e.closeOnce.Do(func() {
		err = e.server.Close()
	})
	return err
}

func (e *Endpoint) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	msg := redirect.Message{
		Origin: e.Origin(),
		Source: e.ID,
		Code:   query.Get("code"),
		State:  query.Get("state"),
		Error:  query.Get("error"),
	}
	// non-blocking: a repeated callback after the buffer filled is stale
	select {
	case e.messages <- msg:
	default:
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(completionPage))
}
