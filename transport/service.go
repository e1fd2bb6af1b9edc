package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/viant/afs/url"

	"github.com/embedid/authflow/schema"
)

// InitializePath is the path, relative to the service base URL, that starts
// a new flow conversation.
const InitializePath = "flow/initialize"

// Service performs flow initialize/submit calls over HTTP.
type Service struct {
	baseURL       string
	applicationID string
	client        *http.Client
}

// Option customises a Service.
type Option func(*Service)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

// WithApplicationID sets the application the flow is initialized for.
func WithApplicationID(applicationID string) Option {
	return func(s *Service) {
		s.applicationID = applicationID
	}
}

// New creates a Service rooted at baseURL.
func New(baseURL string, options ...Option) *Service {
	ret := &Service{
		baseURL: baseURL,
		client:  http.DefaultClient,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

type initializeRequest struct {
	ApplicationID string `json:"applicationId,omitempty"`
}

// Initialize starts a new flow conversation and returns its first session
// frame.
func (s *Service) Initialize(ctx context.Context) (*schema.FlowSession, error) {
	body, err := json.Marshal(initializeRequest{ApplicationID: s.applicationID})
	if err != nil {
		return nil, err
	}
	return s.call(ctx, http.MethodPost, url.Join(s.baseURL, InitializePath), body)
}

// Submit sends a submission payload to the given target, taken verbatim from
// the current session.
func (s *Service) Submit(ctx context.Context, payload *schema.SubmissionPayload, target schema.SubmissionTarget) (*schema.FlowSession, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	method := target.Method
	if method == "" {
		method = http.MethodPost
	}
	return s.call(ctx, method, target.URL, body)
}

func (s *Service) call(ctx context.Context, method, endpoint string, body []byte) (*schema.FlowSession, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call flow service: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("flow service returned status %v: %s", resp.StatusCode, data)
	}
	var session schema.FlowSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode flow response: %w", err)
	}
	return &session, nil
}
