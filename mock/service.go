package mock

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net/http"
	"sync"

	"github.com/embedid/authflow/schema"
)

// SubmitPath is the path, relative to the mock base URL, that submission
// targets in served frames point at.
const SubmitPath = "flow/submit"

// FlowService is a scripted mock of the flow execution service. Each flow
// conversation walks the Steps slice in order: initialize serves the first
// frame, every submit serves the next one. Handlers can be overridden per
// test to simulate transport failures or malformed responses.
type FlowService struct {
	PrivateKey    *rsa.PrivateKey
	Issuer        string
	ApplicationID string
	Steps         []*schema.FlowSession

	InitializeHandler func(w http.ResponseWriter, r *http.Request)
	SubmitHandler     func(w http.ResponseWriter, r *http.Request)

	mu          sync.Mutex
	baseURL     string
	flows       map[string]int
	submissions []schema.SubmissionPayload
}

// Option customises the mock flow service.
type Option func(*FlowService)

// WithApplicationID sets the application the mock accepts initialize calls for.
func WithApplicationID(applicationID string) Option {
	return func(m *FlowService) {
		m.ApplicationID = applicationID
	}
}

// WithSteps sets the scripted frame sequence.
func WithSteps(steps ...*schema.FlowSession) Option {
	return func(m *FlowService) {
		m.Steps = steps
	}
}

// WithIssuer sets the issuer claim of signed assertions.
func WithIssuer(issuer string) Option {
	return func(m *FlowService) {
		m.Issuer = issuer
	}
}

// NewFlowService creates a mock flow service with a fresh RSA signing key.
func NewFlowService(opts ...Option) (*FlowService, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %v", err)
	}
	service := &FlowService{
		PrivateKey: privateKey,
		Issuer:     "https://mock.flow.local",
		flows:      map[string]int{},
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Register registers HTTP handlers for all mock endpoints onto the given ServeMux.
func (m *FlowService) Register(mux *http.ServeMux) {
	mux.Handle("/", &Handler{Service: m})
}

// Handler returns an http.Handler for all mock endpoints, suitable for any HTTP server.
func (m *FlowService) Handler() http.Handler {
	mux := http.NewServeMux()
	m.Register(mux)
	return mux
}

// UseBaseURL tells the mock where it is being served so submission targets in
// served frames carry absolute URLs. Call it right after starting the test
// server.
func (m *FlowService) UseBaseURL(baseURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseURL = baseURL
}

// Submissions returns a copy of every submission payload received so far.
func (m *FlowService) Submissions() []schema.SubmissionPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	ret := make([]schema.SubmissionPayload, len(m.submissions))
	copy(ret, m.submissions)
	return ret
}
