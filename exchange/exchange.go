// Package exchange completes flows whose terminal auth data is an
// authorization code: it exchanges the code (with PKCE) for an OAuth2 token
// and optionally persists the result.
package exchange

import (
	"context"
	"fmt"

	"github.com/viant/scy/auth/flow"
	"golang.org/x/oauth2"

	"github.com/embedid/authflow/schema"
	"github.com/embedid/authflow/store"
)

// Service exchanges completion codes for tokens.
type Service struct {
	client *oauth2.Config
	store  store.Store
}

// Option customises a Service.
type Option func(*Service)

// WithStore persists exchanged tokens keyed by client ID.
func WithStore(s store.Store) Option {
	return func(svc *Service) {
		svc.store = s
	}
}

// New creates a Service for the given OAuth2 client.
func New(client *oauth2.Config, options ...Option) *Service {
	ret := &Service{client: client}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Challenge is the PKCE material generated for one authorization attempt.
type Challenge struct {
	State    string
	Verifier string
}

// NewChallenge generates fresh PKCE state and verifier values.
func NewChallenge() *Challenge {
	return &Challenge{
		State:    flow.GenerateCodeVerifier(),
		Verifier: flow.GenerateCodeVerifier(),
	}
}

// AuthorizationURI builds the provider authorization URL for the challenge.
func (s *Service) AuthorizationURI(challenge *Challenge, redirectURI string) (string, error) {
	return flow.BuildAuthCodeURL(s.client,
		flow.WithPKCE(true),
		flow.WithState(challenge.State),
		flow.WithCodeVerifier(challenge.Verifier),
		flow.WithRedirectURI(redirectURI))
}

// Complete exchanges the completion data's code for a token. The completion
// state must match the challenge state; a mismatch aborts the exchange.
func (s *Service) Complete(ctx context.Context, data *schema.CompletionData, challenge *Challenge, redirectURI string) (*oauth2.Token, error) {
	if data == nil || data.Code == "" {
		return nil, fmt.Errorf("completion data carries no authorization code")
	}
	if challenge != nil && data.State != "" && data.State != challenge.State {
		return nil, fmt.Errorf("completion state mismatch")
	}
	var options []flow.Option
	if challenge != nil {
		options = append(options, flow.WithCodeVerifier(challenge.Verifier))
	}
	if redirectURI != "" {
		options = append(options, flow.WithRedirectURI(redirectURI))
	}
	token, err := flow.Exchange(ctx, s.client, data.Code, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if s.store != nil {
		if err := s.store.AddToken(s.client.ClientID, token); err != nil {
			return nil, fmt.Errorf("failed to store token: %w", err)
		}
	}
	return token, nil
}
