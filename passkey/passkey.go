// Package passkey bridges platform credential (passkey) steps: it decodes
// the challenge a flow step carries, runs the platform credential ceremony
// through a caller-supplied implementation, and wraps the resulting
// assertion as a submittable parameter set.
package passkey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/embedid/authflow/classify"
	"github.com/embedid/authflow/schema"
)

// TokenResponseParam is the submission parameter the assertion is sent under.
const TokenResponseParam = "tokenResponse"

// ErrMissingChallenge is returned when an authenticator classified as a
// passkey carries no challenge data. Defensive; a well-formed flow response
// never triggers it.
var ErrMissingChallenge = errors.New("passkey authenticator carries no challenge data")

// ErrNoCeremony is returned when no platform ceremony was configured.
var ErrNoCeremony = errors.New("no platform credential ceremony configured")

// Ceremony runs the platform credential ceremony for a decoded challenge and
// returns the raw assertion. The assertion is opaque to the flow engine; it
// is forwarded verbatim to the flow service.
type Ceremony interface {
	Assert(ctx context.Context, challenge *protocol.CredentialAssertion) (json.RawMessage, error)
}

// CeremonyFunc adapts a function to the Ceremony interface.
type CeremonyFunc func(ctx context.Context, challenge *protocol.CredentialAssertion) (json.RawMessage, error)

// Assert implements Ceremony.
func (f CeremonyFunc) Assert(ctx context.Context, challenge *protocol.CredentialAssertion) (json.RawMessage, error) {
	return f(ctx, challenge)
}

// CeremonyError reports a failed ceremony, augmented with a contextual hint
// when the underlying failure indicates a security or policy restriction.
type CeremonyError struct {
	Err  error
	Hint string
}

func (e *CeremonyError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("passkey ceremony failed: %v (%s)", e.Err, e.Hint)
	}
	return fmt.Sprintf("passkey ceremony failed: %v", e.Err)
}

func (e *CeremonyError) Unwrap() error { return e.Err }

// Bridge resolves passkey steps into submittable parameters.
type Bridge struct {
	ceremony Ceremony
	logger   *slog.Logger
}

// Option customises a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// New creates a Bridge around the given ceremony.
func New(ceremony Ceremony, options ...Option) *Bridge {
	ret := &Bridge{
		ceremony: ceremony,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// IsPasskey reports whether the authenticator is a platform passkey.
func (b *Bridge) IsPasskey(a *schema.Authenticator) bool {
	return classify.IsPasskey(a)
}

// Resolve decodes the authenticator's challenge, runs the ceremony and
// returns the parameters to submit.
func (b *Bridge) Resolve(ctx context.Context, a *schema.Authenticator) (map[string]string, error) {
	if a == nil || a.AdditionalData == nil || a.AdditionalData.ChallengeData == "" {
		return nil, ErrMissingChallenge
	}
	if b.ceremony == nil {
		return nil, &CeremonyError{Err: ErrNoCeremony}
	}
	var challenge protocol.CredentialAssertion
	if err := json.Unmarshal([]byte(a.AdditionalData.ChallengeData), &challenge); err != nil {
		return nil, fmt.Errorf("failed to decode challenge data: %w", err)
	}
	b.logger.Debug("invoking platform credential ceremony",
		slog.String("authenticator", a.AuthenticatorID))
	assertion, err := b.ceremony.Assert(ctx, &challenge)
	if err != nil {
		return nil, &CeremonyError{Err: err, Hint: hintFor(err)}
	}
	return map[string]string{TokenResponseParam: string(assertion)}, nil
}

// hintFor maps security/context restriction failures to guidance; other
// failures get no hint.
func hintFor(err error) string {
	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "not allowed"), strings.Contains(message, "permission"):
		return "the platform blocked the credential request; check browser policy and device restrictions"
	case strings.Contains(message, "secure context"), strings.Contains(message, "insecure"):
		return "platform credentials require a secure context (HTTPS or localhost)"
	}
	return ""
}
