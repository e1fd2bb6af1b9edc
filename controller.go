package authflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/embedid/authflow/classify"
	"github.com/embedid/authflow/passkey"
	"github.com/embedid/authflow/redirect"
	"github.com/embedid/authflow/schema"
)

// DefaultMaxPasskeyChain bounds runs of consecutive passkey steps; the loop
// is explicit and bounded so a misbehaving service cannot spin the client.
const DefaultMaxPasskeyChain = 8

// Initializer starts a new flow conversation.
type Initializer interface {
	Initialize(ctx context.Context) (*schema.FlowSession, error)
}

// InitializerFunc adapts a function to the Initializer interface.
type InitializerFunc func(ctx context.Context) (*schema.FlowSession, error)

// Initialize implements Initializer.
func (f InitializerFunc) Initialize(ctx context.Context) (*schema.FlowSession, error) {
	return f(ctx)
}

// Submitter sends a submission payload to a session's submission target.
type Submitter interface {
	Submit(ctx context.Context, payload *schema.SubmissionPayload, target schema.SubmissionTarget) (*schema.FlowSession, error)
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, payload *schema.SubmissionPayload, target schema.SubmissionTarget) (*schema.FlowSession, error)

// Submit implements Submitter.
func (f SubmitterFunc) Submit(ctx context.Context, payload *schema.SubmissionPayload, target schema.SubmissionTarget) (*schema.FlowSession, error) {
	return f(ctx, payload, target)
}

// StepView is what the controller exposes to the caller after each advance:
// everything a renderer needs, nothing it does not.
type StepView struct {
	// State the controller settled in.
	State State
	// Selected is the auto-selected authenticator, nil when a choice is open.
	Selected *schema.Authenticator
	// Fields are the editable inputs of the selected authenticator.
	Fields []Field
	// Options is the deny-list-filtered authenticator set when the step
	// requires an external choice.
	Options []schema.Authenticator
	// Messages are the step's advisory messages.
	Messages []schema.Message
	// Result carries the terminal auth data once State is StateSuccess.
	Result *schema.CompletionData
}

// Controller is the flow state machine. One Controller owns exactly one flow
// conversation; it is not re-entrant and rejects concurrent calls with
// ErrFlowBusy.
type Controller struct {
	initializer Initializer
	submitter   Submitter
	redirect    *redirect.Coordinator
	passkey     *passkey.Bridge
	denyList    []string
	maxChain    int
	logger      *slog.Logger

	mu       sync.Mutex
	busy     bool
	state    State
	session  *schema.FlowSession
	step     *schema.Step
	selected *schema.Authenticator
	result   *schema.CompletionData
}

// Option customises a Controller.
type Option func(*Controller)

// WithDenyList hides the given authenticator identifiers from every choice
// set the controller exposes.
func WithDenyList(authenticatorIDs ...string) Option {
	return func(c *Controller) {
		c.denyList = authenticatorIDs
	}
}

// WithRedirectCoordinator sets the coordinator redirect steps are handed to.
func WithRedirectCoordinator(coordinator *redirect.Coordinator) Option {
	return func(c *Controller) {
		c.redirect = coordinator
	}
}

// WithPasskeyBridge sets the bridge passkey steps are handed to.
func WithPasskeyBridge(bridge *passkey.Bridge) Option {
	return func(c *Controller) {
		c.passkey = bridge
	}
}

// WithMaxPasskeyChain overrides the consecutive passkey step bound.
func WithMaxPasskeyChain(max int) Option {
	return func(c *Controller) {
		c.maxChain = max
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates a Controller over the given transport contracts.
func New(initializer Initializer, submitter Submitter, options ...Option) (*Controller, error) {
	if initializer == nil {
		return nil, fmt.Errorf("initializer was nil")
	}
	if submitter == nil {
		return nil, fmt.Errorf("submitter was nil")
	}
	ret := &Controller{
		initializer: initializer,
		submitter:   submitter,
		maxChain:    DefaultMaxPasskeyChain,
		logger:      slog.Default(),
		state:       StateIdle,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret, nil
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FlowID returns the current session's flow identifier, empty before
// initialization.
func (c *Controller) FlowID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.FlowID
}

// Result returns the terminal auth data after a successful completion.
func (c *Controller) Result() *schema.CompletionData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Initialize starts a flow conversation. Calling it again abandons any prior
// conversation and starts an unrelated one with a new flow identifier.
func (c *Controller) Initialize(ctx context.Context) (*StepView, error) {
	if err := c.acquire(); err != nil {
		return nil, err
	}
	defer c.release()

	c.reset()
	c.setState(StateInitializing)
	session, err := c.initializer.Initialize(ctx)
	if err != nil {
		c.setState(StateIdle)
		return nil, &InitError{Err: err}
	}
	return c.advance(ctx, session, 0)
}

// Submit sends the collected inputs for the named authenticator. It is valid
// only while the controller awaits authenticator input. For redirect and
// passkey authenticators inputs are ignored and the respective hand-off runs
// instead, so a caller can retry a reported redirect or ceremony failure by
// re-submitting the same authenticator.
func (c *Controller) Submit(ctx context.Context, authenticatorID string, inputs map[string]string) (*StepView, error) {
	if err := c.acquireAwaiting(); err != nil {
		return nil, err
	}
	defer c.release()

	a := c.offeredByID(authenticatorID)
	if a == nil {
		return nil, &UnknownAuthenticatorError{AuthenticatorID: authenticatorID}
	}
	c.setSelected(a)

	switch {
	case classify.IsRedirect(a):
		session, err := c.completeRedirect(ctx, a)
		if err != nil {
			c.setState(StateAwaitingSelection)
			return nil, err
		}
		return c.advance(ctx, session, 0)
	case classify.IsPasskey(a):
		session, err := c.completePasskey(ctx, a)
		if err != nil {
			c.setState(StateAwaitingSelection)
			return nil, err
		}
		return c.advance(ctx, session, 1)
	}

	if missing := missingRequired(a, inputs); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}
	session, err := c.submitSelected(ctx, a, inputs)
	if err != nil {
		c.setState(StateAwaitingSelection)
		return nil, err
	}
	return c.advance(ctx, session, 0)
}

// SubmitAction sends an action-driven (componentized) submission.
func (c *Controller) SubmitAction(ctx context.Context, actionID string, inputs map[string]string) (*StepView, error) {
	if err := c.acquireAwaiting(); err != nil {
		return nil, err
	}
	defer c.release()

	c.setState(StateSubmitting)
	payload := &schema.SubmissionPayload{
		FlowID:   c.currentSession().FlowID,
		ActionID: actionID,
		Inputs:   inputs,
	}
	session, err := c.submitter.Submit(ctx, payload, c.currentSession().Target)
	if err != nil {
		c.setState(StateAwaitingSelection)
		return nil, err
	}
	return c.advance(ctx, session, 0)
}

// advance consumes flow responses until the conversation pauses for external
// input or terminates. Redirect and passkey steps are completed inline;
// passkeyChain counts the consecutive passkey steps already completed so the
// chain stays bounded.
func (c *Controller) advance(ctx context.Context, session *schema.FlowSession, passkeyChain int) (*StepView, error) {
	for {
		c.storeSession(session)

		if session.Status == schema.StatusSuccessCompleted {
			c.setState(StateSuccess)
			c.setResult(session.Data)
			view := &StepView{State: StateSuccess, Result: session.Data}
			if session.Step != nil {
				view.Messages = session.Step.Messages
			}
			return view, nil
		}
		if session.Status.Failed() {
			// FAIL_COMPLETED and FAIL_INCOMPLETE are reported identically
			c.setState(StateFailed)
			return nil, ErrCompletionFailed
		}

		step := session.Step
		if step == nil {
			c.setState(StateFailed)
			return nil, ErrNoAuthenticators
		}
		offered := classify.Filter(step.Authenticators, c.denyList)
		if len(offered) == 0 {
			if step.Type.RequiresAuthenticators() {
				c.setState(StateFailed)
				return nil, ErrNoAuthenticators
			}
			// step types without an authenticator requirement pause for
			// action-driven input instead
			c.setSelected(nil)
			c.setState(StateAwaitingSelection)
			return &StepView{State: StateAwaitingSelection, Messages: step.Messages}, nil
		}

		if step.Type == schema.StepMultiOptionsPrompt && len(offered) > 1 {
			c.setSelected(nil)
			c.setState(StateAwaitingSelection)
			return &StepView{
				State:    StateAwaitingSelection,
				Options:  offered,
				Messages: step.Messages,
			}, nil
		}

		a := &offered[0]
		c.setSelected(a)
		c.logger.Debug("authenticator selected",
			slog.String("flowId", session.FlowID),
			slog.String("authenticator", a.AuthenticatorID))

		switch {
		case classify.IsRedirect(a):
			next, err := c.completeRedirect(ctx, a)
			if err != nil {
				c.setState(StateAwaitingSelection)
				return nil, err
			}
			session = next
			passkeyChain = 0
			continue
		case classify.IsPasskey(a):
			passkeyChain++
			if passkeyChain > c.maxChain {
				c.setState(StateFailed)
				return nil, fmt.Errorf("%w: %d consecutive steps", ErrPasskeyChainExceeded, passkeyChain)
			}
			next, err := c.completePasskey(ctx, a)
			if err != nil {
				c.setState(StateAwaitingSelection)
				return nil, err
			}
			session = next
			continue
		}

		c.setState(StateAwaitingSelection)
		return &StepView{
			State:    StateAwaitingSelection,
			Selected: a,
			Fields:   projectFields(a),
			Messages: step.Messages,
		}, nil
	}
}

func (c *Controller) completeRedirect(ctx context.Context, a *schema.Authenticator) (*schema.FlowSession, error) {
	if c.redirect == nil {
		return nil, fmt.Errorf("authenticator %q requires a redirect coordinator and none is configured", a.AuthenticatorID)
	}
	c.setState(StateRedirectPending)
	outcome, err := c.redirect.Complete(ctx, a.AdditionalData.RedirectURL)
	if err != nil {
		return nil, err
	}
	return c.submitSelected(ctx, a, map[string]string{
		"code":  outcome.Code,
		"state": outcome.State,
	})
}

func (c *Controller) completePasskey(ctx context.Context, a *schema.Authenticator) (*schema.FlowSession, error) {
	if c.passkey == nil {
		return nil, fmt.Errorf("authenticator %q requires a passkey bridge and none is configured", a.AuthenticatorID)
	}
	c.setState(StatePasskeyPending)
	params, err := c.passkey.Resolve(ctx, a)
	if err != nil {
		return nil, err
	}
	return c.submitSelected(ctx, a, params)
}

func (c *Controller) submitSelected(ctx context.Context, a *schema.Authenticator, params map[string]string) (*schema.FlowSession, error) {
	session := c.currentSession()
	c.setState(StateSubmitting)
	payload := &schema.SubmissionPayload{
		FlowID: session.FlowID,
		SelectedAuthenticator: &schema.SelectedAuthenticator{
			AuthenticatorID: a.AuthenticatorID,
			Params:          params,
		},
	}
	return c.submitter.Submit(ctx, payload, session.Target)
}

// ---- guarded state access ----

func (c *Controller) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrFlowBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) acquireAwaiting() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrFlowBusy
	}
	if c.state.Terminal() {
		return ErrFlowTerminal
	}
	if c.state != StateAwaitingSelection {
		return ErrNotAwaitingInput
	}
	c.busy = true
	return nil
}

func (c *Controller) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
}

func (c *Controller) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
	c.step = nil
	c.selected = nil
	c.result = nil
}

func (c *Controller) setState(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != state {
		c.logger.Debug("flow state transition",
			slog.String("from", c.state.String()),
			slog.String("to", state.String()))
	}
	c.state = state
}

func (c *Controller) storeSession(session *schema.FlowSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
	c.step = session.Step
}

func (c *Controller) currentSession() *schema.FlowSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Controller) setSelected(a *schema.Authenticator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = a
}

func (c *Controller) setResult(data *schema.CompletionData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = data
}

// offeredByID finds an authenticator in the current step's filtered set.
func (c *Controller) offeredByID(authenticatorID string) *schema.Authenticator {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == nil {
		return nil
	}
	offered := classify.Filter(c.step.Authenticators, c.denyList)
	for i := range offered {
		if offered[i].AuthenticatorID == authenticatorID {
			return &offered[i]
		}
	}
	return nil
}
