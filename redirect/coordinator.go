package redirect

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

// DefaultPollInterval is how often the poll channel inspects the window URL.
const DefaultPollInterval = time.Second

// Outcome is a successfully extracted authorization code pair.
type Outcome struct {
	Code  string
	State string
}

// Coordinator owns one redirect attempt at a time: it opens a child window,
// races the message and poll channels, and releases all resources exactly
// once regardless of which exit fired.
type Coordinator struct {
	opener         Opener
	interval       time.Duration
	expectedOrigin string
	hostOrigin     string
	logger         *slog.Logger
}

// Option customises a Coordinator.
type Option func(*Coordinator)

// WithPollInterval sets the URL poll interval.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Coordinator) {
		c.interval = interval
	}
}

// WithExpectedOrigin sets the origin completion messages are trusted from,
// typically derived from the configured post-login URL. When unset the
// window's own origin is used.
func WithExpectedOrigin(origin string) Option {
	return func(c *Coordinator) {
		c.expectedOrigin = origin
	}
}

// WithHostOrigin sets the host application's own origin, always trusted in
// addition to the expected origin.
func WithHostOrigin(origin string) Option {
	return func(c *Coordinator) {
		c.hostOrigin = origin
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// New creates a Coordinator that opens child windows with the given opener.
func New(opener Opener, options ...Option) *Coordinator {
	ret := &Coordinator{
		opener:   opener,
		interval: DefaultPollInterval,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Complete opens a child window at redirectURL and blocks until a completion
// is detected, the user closes the window, or ctx is cancelled. It returns
// the extracted code/state, a *ProviderError when the provider reported an
// error parameter, ErrAbandoned on user-driven closure, or a *OpenError when
// the window could not be created.
func (c *Coordinator) Complete(ctx context.Context, redirectURL string) (*Outcome, error) {
	win, err := c.opener.Open(ctx, redirectURL)
	if err != nil {
		return nil, &OpenError{Err: err}
	}

	cell := newLatch()
	done := make(chan struct{})
	ticker := time.NewTicker(c.interval)

	var releaseOnce sync.Once
	release := func() {
		releaseOnce.Do(func() {
			close(done)
			ticker.Stop()
			_ = win.Close()
		})
	}
	defer release()

	go c.watchMessages(win, cell, done)
	go c.pollLocation(win, cell, done, ticker)

	select {
	case r := <-cell.ch:
		return r.outcome, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// watchMessages is the message detection channel. Messages whose source is
// not the opened window or whose origin is not allowed are silently skipped;
// unrelated senders are expected noise, not errors.
func (c *Coordinator) watchMessages(win Window, cell *latch, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg, ok := <-win.Messages():
			if !ok {
				return
			}
			if !c.trusted(win, msg) {
				c.logger.Debug("ignoring untrusted redirect message",
					slog.String("origin", msg.Origin), slog.String("source", msg.Source))
				continue
			}
			if msg.Error != "" {
				cell.set(result{err: &ProviderError{Code: msg.Error}})
				return
			}
			if msg.Code != "" {
				cell.set(result{outcome: &Outcome{Code: msg.Code, State: msg.State}})
				return
			}
		}
	}
}

// pollLocation is the poll detection channel. Each tick it first checks for
// user-driven closure, then tries to read the window URL; read failures are
// expected while the window sits on a foreign origin.
func (c *Coordinator) pollLocation(win Window, cell *latch, done <-chan struct{}, ticker *time.Ticker) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if win.Closed() {
				cell.set(result{err: ErrAbandoned})
				return
			}
			location, err := win.Location()
			if err != nil {
				if !errors.Is(err, ErrLocationUnavailable) {
					c.logger.Debug("window location read failed", slog.Any("error", err))
				}
				continue
			}
			r, found := parseCompletion(location)
			if !found {
				continue
			}
			cell.set(r)
			return
		}
	}
}

func (c *Coordinator) trusted(win Window, msg Message) bool {
	if msg.Source != win.SourceID() {
		return false
	}
	expected := c.expectedOrigin
	if expected == "" {
		expected = c.hostOrigin
	}
	if expected == "" {
		expected = win.Origin()
	}
	if msg.Origin == expected {
		return true
	}
	return c.hostOrigin != "" && msg.Origin == c.hostOrigin
}

// parseCompletion inspects a window URL for code= or error= query markers.
func parseCompletion(rawURL string) (result, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return result{}, false
	}
	query := parsed.Query()
	if errCode := query.Get("error"); errCode != "" {
		return result{err: &ProviderError{Code: errCode}}, true
	}
	if code := query.Get("code"); code != "" {
		return result{outcome: &Outcome{Code: code, State: query.Get("state")}}, true
	}
	return result{}, false
}
