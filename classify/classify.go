package classify

import (
	"github.com/embedid/authflow/schema"
)

// PasskeyAuthenticatorID identifies the platform passkey authenticator in
// flow responses.
const PasskeyAuthenticatorID = "FIDO2"

// LocalIDP tags authenticators handled by the flow service itself rather
// than a federated provider.
const LocalIDP = "LOCAL"

// IsRedirect reports whether the authenticator completes through an external
// identity provider: a redirection prompt with a redirect URL present.
func IsRedirect(a *schema.Authenticator) bool {
	return a != nil &&
		a.Prompt == schema.PromptRedirection &&
		a.AdditionalData != nil &&
		a.AdditionalData.RedirectURL != ""
}

// IsPasskey reports whether the authenticator is a platform passkey: the
// passkey authenticator identifier, an internal prompt, and challenge data
// present. Classification is derived per response, never stored.
func IsPasskey(a *schema.Authenticator) bool {
	return a != nil &&
		a.AuthenticatorID == PasskeyAuthenticatorID &&
		a.Prompt == schema.PromptInternal &&
		a.AdditionalData != nil &&
		a.AdditionalData.ChallengeData != ""
}

// IsHidden reports whether the authenticator identifier is on the deny list.
// Denied authenticators are excluded from any choice set.
func IsHidden(a *schema.Authenticator, denyList []string) bool {
	if a == nil {
		return false
	}
	for _, id := range denyList {
		if a.AuthenticatorID == id {
			return true
		}
	}
	return false
}

// Filter returns the authenticators not present on the deny list, preserving
// order.
func Filter(authenticators []schema.Authenticator, denyList []string) []schema.Authenticator {
	if len(denyList) == 0 {
		return authenticators
	}
	var kept []schema.Authenticator
	for i := range authenticators {
		if !IsHidden(&authenticators[i], denyList) {
			kept = append(kept, authenticators[i])
		}
	}
	return kept
}

// Partition splits a multi-option authenticator set into direct-input
// authenticators (rendered as an inline form) and selectable ones (rendered
// as a choice). An authenticator with declared params and a local identity
// provider counts as direct-input even without an explicit user prompt.
// Relative order within each part is preserved.
func Partition(authenticators []schema.Authenticator) (direct, selectable []schema.Authenticator) {
	for i := range authenticators {
		a := authenticators[i]
		if a.Prompt == schema.PromptUser || (len(a.Params) > 0 && a.IDP == LocalIDP) {
			direct = append(direct, a)
			continue
		}
		selectable = append(selectable, a)
	}
	return direct, selectable
}
