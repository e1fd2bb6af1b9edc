package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowStatusTerminal(t *testing.T) {
	assert.False(t, StatusInProgress.Terminal())
	assert.True(t, StatusSuccessCompleted.Terminal())
	assert.True(t, StatusFailCompleted.Terminal())
	assert.True(t, StatusFailIncomplete.Terminal())

	assert.False(t, StatusSuccessCompleted.Failed())
	assert.True(t, StatusFailCompleted.Failed())
	assert.True(t, StatusFailIncomplete.Failed())
}

func TestFlowStatusUnmarshalRejectsUnknown(t *testing.T) {
	var s FlowStatus
	err := json.Unmarshal([]byte(`"PAUSED"`), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flow status")
}

func TestStepTypeUnmarshalRejectsUnknown(t *testing.T) {
	var st StepType
	require.NoError(t, json.Unmarshal([]byte(`"MULTI_OPTIONS_PROMPT"`), &st))
	assert.Equal(t, StepMultiOptionsPrompt, st)

	err := json.Unmarshal([]byte(`"CAPTCHA_PROMPT"`), &st)
	require.Error(t, err)
}

func TestSessionDecode(t *testing.T) {
	payload := `{
		"flowId": "a2f1",
		"submissionTarget": {"method": "POST", "url": "https://auth.example/flow/submit"},
		"flowStatus": "IN_PROGRESS",
		"nextStep": {
			"stepType": "AUTHENTICATOR_PROMPT",
			"authenticators": [
				{
					"authenticatorId": "basic",
					"idp": "LOCAL",
					"promptType": "USER_PROMPT",
					"params": [{"param": "username"}, {"param": "password", "confidential": true}],
					"requiredParams": ["username", "password"]
				}
			],
			"messages": [{"type": "INFO", "text": "Enter your credentials"}]
		}
	}`
	var session FlowSession
	require.NoError(t, json.Unmarshal([]byte(payload), &session))

	assert.Equal(t, "a2f1", session.FlowID)
	assert.Equal(t, "POST", session.Target.Method)
	assert.Equal(t, StatusInProgress, session.Status)
	require.NotNil(t, session.Step)
	assert.Equal(t, StepAuthenticatorPrompt, session.Step.Type)
	require.Len(t, session.Step.Authenticators, 1)
	assert.Equal(t, PromptUser, session.Step.Authenticators[0].Prompt)
	assert.True(t, session.Step.Authenticators[0].Params[1].Confidential)
	require.Len(t, session.Step.Messages, 1)
	assert.Equal(t, MessageInfo, session.Step.Messages[0].Type)
}

func TestSubmissionPayloadOmitsEmptyVariant(t *testing.T) {
	payload := SubmissionPayload{
		FlowID: "a2f1",
		SelectedAuthenticator: &SelectedAuthenticator{
			AuthenticatorID: "basic",
			Params:          map[string]string{"username": "kai"},
		},
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "actionId")

	action := SubmissionPayload{FlowID: "a2f1", ActionID: "next", Inputs: map[string]string{"otp": "000000"}}
	data, err = json.Marshal(action)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "selectedAuthenticator")
	assert.Contains(t, string(data), `"actionId":"next"`)
}
