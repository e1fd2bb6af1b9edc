package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/embedid/authflow/schema"
)

func TestIsRedirect(t *testing.T) {
	testCases := []struct {
		description   string
		authenticator *schema.Authenticator
		expect        bool
	}{
		{
			description: "redirection prompt with redirect URL",
			authenticator: &schema.Authenticator{
				AuthenticatorID: "google",
				Prompt:          schema.PromptRedirection,
				AdditionalData:  &schema.AdditionalData{RedirectURL: "https://idp/auth"},
			},
			expect: true,
		},
		{
			description: "redirection prompt without redirect URL",
			authenticator: &schema.Authenticator{
				Prompt:         schema.PromptRedirection,
				AdditionalData: &schema.AdditionalData{},
			},
			expect: false,
		},
		{
			description: "user prompt with redirect URL",
			authenticator: &schema.Authenticator{
				Prompt:         schema.PromptUser,
				AdditionalData: &schema.AdditionalData{RedirectURL: "https://idp/auth"},
			},
			expect: false,
		},
		{description: "nil authenticator", authenticator: nil, expect: false},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, IsRedirect(testCase.authenticator), testCase.description)
	}
}

func TestIsPasskey(t *testing.T) {
	passkey := &schema.Authenticator{
		AuthenticatorID: PasskeyAuthenticatorID,
		Prompt:          schema.PromptInternal,
		AdditionalData:  &schema.AdditionalData{ChallengeData: `{"publicKey":{}}`},
	}
	assert.True(t, IsPasskey(passkey))

	noChallenge := &schema.Authenticator{
		AuthenticatorID: PasskeyAuthenticatorID,
		Prompt:          schema.PromptInternal,
		AdditionalData:  &schema.AdditionalData{},
	}
	assert.False(t, IsPasskey(noChallenge))

	wrongPrompt := &schema.Authenticator{
		AuthenticatorID: PasskeyAuthenticatorID,
		Prompt:          schema.PromptUser,
		AdditionalData:  &schema.AdditionalData{ChallengeData: `{"publicKey":{}}`},
	}
	assert.False(t, IsPasskey(wrongPrompt))

	otherID := &schema.Authenticator{
		AuthenticatorID: "basic",
		Prompt:          schema.PromptInternal,
		AdditionalData:  &schema.AdditionalData{ChallengeData: `{"publicKey":{}}`},
	}
	assert.False(t, IsPasskey(otherID))
}

func TestFilter(t *testing.T) {
	authenticators := []schema.Authenticator{
		{AuthenticatorID: "basic"},
		{AuthenticatorID: "org-sso"},
		{AuthenticatorID: "google"},
	}
	kept := Filter(authenticators, []string{"org-sso"})
	assert.Len(t, kept, 2)
	assert.Equal(t, "basic", kept[0].AuthenticatorID)
	assert.Equal(t, "google", kept[1].AuthenticatorID)

	// empty deny list keeps the original slice
	assert.Equal(t, authenticators, Filter(authenticators, nil))
}

func TestPartition(t *testing.T) {
	authenticators := []schema.Authenticator{
		{AuthenticatorID: "basic", IDP: LocalIDP, Prompt: schema.PromptUser, Params: []schema.Param{{Name: "username"}}},
		{AuthenticatorID: "google", Prompt: schema.PromptRedirection},
		// local with params counts as direct-input even without a user prompt
		{AuthenticatorID: "otp", IDP: LocalIDP, Prompt: schema.PromptInternal, Params: []schema.Param{{Name: "otp"}}},
		{AuthenticatorID: "github", Prompt: schema.PromptRedirection},
	}
	direct, selectable := Partition(authenticators)

	assert.Equal(t, []string{"basic", "otp"}, ids(direct))
	assert.Equal(t, []string{"google", "github"}, ids(selectable))
}

func ids(authenticators []schema.Authenticator) []string {
	var result []string
	for _, a := range authenticators {
		result = append(result, a.AuthenticatorID)
	}
	return result
}
