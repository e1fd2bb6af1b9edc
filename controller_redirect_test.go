package authflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedid/authflow/redirect"
	"github.com/embedid/authflow/schema"
)

type stubWindow struct {
	mu       sync.Mutex
	id       string
	origin   string
	location string
	closed   bool
	messages chan redirect.Message
}

func newStubWindow(id, origin string) *stubWindow {
	return &stubWindow{id: id, origin: origin, messages: make(chan redirect.Message, 4)}
}

func (w *stubWindow) SourceID() string { return w.id }
func (w *stubWindow) Origin() string   { return w.origin }

func (w *stubWindow) Location() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.location == "" {
		return "", redirect.ErrLocationUnavailable
	}
	return w.location, nil
}

func (w *stubWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *stubWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *stubWindow) Messages() <-chan redirect.Message { return w.messages }

type stubOpener struct {
	mu      sync.Mutex
	windows []*stubWindow
	opened  []string
}

func (o *stubOpener) Open(_ context.Context, rawURL string) (redirect.Window, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, rawURL)
	win := o.windows[0]
	o.windows = o.windows[1:]
	return win, nil
}

func redirectStep(redirectURL string) *schema.Step {
	return &schema.Step{
		Type: schema.StepAuthenticatorPrompt,
		Authenticators: []schema.Authenticator{{
			AuthenticatorID: "google",
			IDP:             "GOOGLE",
			Prompt:          schema.PromptRedirection,
			AdditionalData:  &schema.AdditionalData{RedirectURL: redirectURL},
		}},
	}
}

// Scenario: the child window lands on the callback URL; even when the same
// completion also arrives as a message, exactly one submission is sent.
func TestRedirectCompletionSubmitsExactlyOnce(t *testing.T) {
	win := newStubWindow("popup-1", "https://app.example")
	win.mu.Lock()
	win.location = "https://app.example/cb?code=abc&state=xyz"
	win.mu.Unlock()
	win.messages <- redirect.Message{Origin: "https://app.example", Source: "popup-1", Code: "abc", State: "xyz"}

	opener := &stubOpener{windows: []*stubWindow{win}}
	coordinator := redirect.New(opener, redirect.WithPollInterval(5*time.Millisecond))

	s := &script{responses: []*schema.FlowSession{
		inProgress(redirectStep("https://idp/auth")),
		succeeded(&schema.CompletionData{Assertion: "jwt"}),
	}}
	ctrl := newController(t, s, WithRedirectCoordinator(coordinator))

	view, err := ctrl.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, view.State)

	assert.Equal(t, []string{"https://idp/auth"}, opener.opened)
	submissions := s.recorded()
	require.Len(t, submissions, 1, "both channels detected the completion; only one submission may result")
	assert.Equal(t, "google", submissions[0].SelectedAuthenticator.AuthenticatorID)
	assert.Equal(t, map[string]string{"code": "abc", "state": "xyz"},
		submissions[0].SelectedAuthenticator.Params)
	assert.True(t, win.Closed())
}

func TestRedirectAbandonedIsResumable(t *testing.T) {
	dismissed := newStubWindow("popup-1", "https://app.example")
	dismissed.mu.Lock()
	dismissed.closed = true
	dismissed.mu.Unlock()

	completed := newStubWindow("popup-2", "https://app.example")
	completed.messages <- redirect.Message{Origin: "https://app.example", Source: "popup-2", Code: "abc", State: "xyz"}

	opener := &stubOpener{windows: []*stubWindow{dismissed, completed}}
	coordinator := redirect.New(opener, redirect.WithPollInterval(5*time.Millisecond))

	s := &script{responses: []*schema.FlowSession{
		inProgress(redirectStep("https://idp/auth")),
		succeeded(nil),
	}}
	ctrl := newController(t, s, WithRedirectCoordinator(coordinator))

	_, err := ctrl.Initialize(context.Background())
	assert.ErrorIs(t, err, redirect.ErrAbandoned)
	assert.Equal(t, StateAwaitingSelection, ctrl.State())
	assert.Empty(t, s.recorded())

	// the caller decides to retry by re-submitting the same authenticator
	view, err := ctrl.Submit(context.Background(), "google", nil)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, view.State)
	assert.Len(t, s.recorded(), 1)
}

func TestRedirectProviderErrorDoesNotFailFlow(t *testing.T) {
	win := newStubWindow("popup-1", "https://app.example")
	win.messages <- redirect.Message{Origin: "https://app.example", Source: "popup-1", Error: "access_denied"}

	opener := &stubOpener{windows: []*stubWindow{win}}
	coordinator := redirect.New(opener, redirect.WithPollInterval(5*time.Millisecond))

	s := &script{responses: []*schema.FlowSession{
		inProgress(redirectStep("https://idp/auth")),
	}}
	ctrl := newController(t, s, WithRedirectCoordinator(coordinator))

	_, err := ctrl.Initialize(context.Background())
	var providerErr *redirect.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, "access_denied", providerErr.Code)
	assert.Equal(t, StateAwaitingSelection, ctrl.State())
	assert.Empty(t, s.recorded())
}
