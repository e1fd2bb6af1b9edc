package schema

// SubmissionTarget is where the next submission for a session must be sent.
// Method and URL are taken verbatim from the service response.
type SubmissionTarget struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

// FlowSession is one response frame of a flow conversation. The FlowID stays
// stable across non-terminal steps of the same flow; a fresh initialize call
// starts an unrelated session with a new FlowID.
type FlowSession struct {
	FlowID string           `json:"flowId"`
	Target SubmissionTarget `json:"submissionTarget"`
	Status FlowStatus       `json:"flowStatus"`
	Step   *Step            `json:"nextStep,omitempty"`
	Data   *CompletionData  `json:"authData,omitempty"`
}

// CompletionData carries the terminal auth data returned when a flow reaches
// SUCCESS_COMPLETED. Either an assertion (a signed token) or an authorization
// code pair is present depending on the application's integration mode.
type CompletionData struct {
	Assertion string `json:"assertion,omitempty"`
	Code      string `json:"code,omitempty"`
	State     string `json:"state,omitempty"`
}

// Step describes what the flow expects next.
type Step struct {
	Type           StepType        `json:"stepType"`
	Authenticators []Authenticator `json:"authenticators,omitempty"`
	Messages       []Message       `json:"messages,omitempty"`
}

// Authenticator is one option offered by a step.
type Authenticator struct {
	AuthenticatorID string          `json:"authenticatorId"`
	IDP             string          `json:"idp,omitempty"`
	Prompt          PromptKind      `json:"promptType"`
	Params          []Param         `json:"params,omitempty"`
	RequiredParams  []string        `json:"requiredParams,omitempty"`
	AdditionalData  *AdditionalData `json:"additionalData,omitempty"`
}

// AdditionalData holds authenticator-specific material: a credential
// challenge for platform authenticators or a redirect URL for federated ones.
type AdditionalData struct {
	ChallengeData string `json:"challengeData,omitempty"`
	RedirectURL   string `json:"redirectUrl,omitempty"`
	State         string `json:"state,omitempty"`
}

// Param declares one input parameter an authenticator accepts.
type Param struct {
	Name         string `json:"param"`
	DisplayName  string `json:"displayName,omitempty"`
	Type         string `json:"type,omitempty"`
	Confidential bool   `json:"confidential,omitempty"`
	Order        int    `json:"order,omitempty"`
}

// Message is advisory text attached to a step.
type Message struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

// SelectedAuthenticator names the authenticator a submission acts on and the
// parameter values collected for it.
type SelectedAuthenticator struct {
	AuthenticatorID string            `json:"authenticatorId"`
	Params          map[string]string `json:"params,omitempty"`
}

// SubmissionPayload is the request body of a submit call. Exactly one of
// SelectedAuthenticator or ActionID drives the submission; ActionID with
// Inputs is the action-driven (componentized) variant.
type SubmissionPayload struct {
	FlowID                string                 `json:"flowId"`
	SelectedAuthenticator *SelectedAuthenticator `json:"selectedAuthenticator,omitempty"`
	ActionID              string                 `json:"actionId,omitempty"`
	Inputs                map[string]string      `json:"inputs,omitempty"`
}
