package schema

import (
	"encoding/json"
	"fmt"
)

// FlowStatus reports where a flow conversation stands after a response.
type FlowStatus string

const (
	// StatusInProgress indicates the flow expects further submissions.
	StatusInProgress FlowStatus = "IN_PROGRESS"
	// StatusSuccessCompleted indicates the flow finished successfully.
	StatusSuccessCompleted FlowStatus = "SUCCESS_COMPLETED"
	// StatusFailCompleted indicates the flow finished unsuccessfully.
	StatusFailCompleted FlowStatus = "FAIL_COMPLETED"
	// StatusFailIncomplete indicates the flow was aborted before completion.
	StatusFailIncomplete FlowStatus = "FAIL_INCOMPLETE"
)

// Terminal reports whether no further submission is valid for this status.
func (s FlowStatus) Terminal() bool {
	switch s {
	case StatusSuccessCompleted, StatusFailCompleted, StatusFailIncomplete:
		return true
	}
	return false
}

// Failed reports whether the status is one of the failure terminals.
func (s FlowStatus) Failed() bool {
	return s == StatusFailCompleted || s == StatusFailIncomplete
}

// UnmarshalJSON implements json.Unmarshaler, rejecting unknown statuses.
func (s *FlowStatus) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	switch FlowStatus(value) {
	case StatusInProgress, StatusSuccessCompleted, StatusFailCompleted, StatusFailIncomplete:
		*s = FlowStatus(value)
		return nil
	}
	return fmt.Errorf("unknown flow status: %q", value)
}

// StepType identifies the shape of a step returned by the flow service.
type StepType string

const (
	// StepAuthenticatorPrompt carries one or more authenticators; a sole
	// authenticator is acted on without surfacing a choice.
	StepAuthenticatorPrompt StepType = "AUTHENTICATOR_PROMPT"
	// StepMultiOptionsPrompt requires the caller to pick one authenticator
	// when more than one is offered.
	StepMultiOptionsPrompt StepType = "MULTI_OPTIONS_PROMPT"
)

// RequiresAuthenticators reports whether a non-terminal step of this type
// must carry at least one authenticator.
func (t StepType) RequiresAuthenticators() bool {
	switch t {
	case StepAuthenticatorPrompt, StepMultiOptionsPrompt:
		return true
	}
	return false
}

// UnmarshalJSON implements json.Unmarshaler, rejecting unknown step types.
func (t *StepType) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	switch StepType(value) {
	case StepAuthenticatorPrompt, StepMultiOptionsPrompt:
		*t = StepType(value)
		return nil
	}
	return fmt.Errorf("unknown step type: %q", value)
}

// PromptKind describes how an authenticator collects its input.
type PromptKind string

const (
	// PromptUser collects input from the user through a rendered form.
	PromptUser PromptKind = "USER_PROMPT"
	// PromptInternal is satisfied by the client without user-visible input,
	// e.g. a platform credential ceremony.
	PromptInternal PromptKind = "INTERNAL_PROMPT"
	// PromptRedirection completes through an external identity provider
	// reached via a redirect URL.
	PromptRedirection PromptKind = "REDIRECTION_PROMPT"
)

// UnmarshalJSON implements json.Unmarshaler, rejecting unknown prompt kinds.
func (p *PromptKind) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	switch PromptKind(value) {
	case PromptUser, PromptInternal, PromptRedirection:
		*p = PromptKind(value)
		return nil
	}
	return fmt.Errorf("unknown prompt kind: %q", value)
}

// MessageType classifies an advisory message; messages never alter control flow.
type MessageType string

const (
	MessageInfo    MessageType = "INFO"
	MessageWarning MessageType = "WARNING"
	MessageError   MessageType = "ERROR"
	MessageSuccess MessageType = "SUCCESS"
)

// UnmarshalJSON implements json.Unmarshaler, rejecting unknown message types.
func (m *MessageType) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	switch MessageType(value) {
	case MessageInfo, MessageWarning, MessageError, MessageSuccess:
		*m = MessageType(value)
		return nil
	}
	return fmt.Errorf("unknown message type: %q", value)
}
