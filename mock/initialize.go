package mock

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/viant/afs/url"

	"github.com/embedid/authflow/schema"
)

// defaultInitializeHandler handles /flow/initialize requests
func (m *FlowService) defaultInitializeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var request struct {
		ApplicationID string `json:"applicationId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if m.ApplicationID != "" && request.ApplicationID != m.ApplicationID {
		http.Error(w, "Invalid application ID", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Steps) == 0 {
		http.Error(w, "No scripted steps", http.StatusInternalServerError)
		return
	}
	flowID := uuid.NewString()
	m.flows[flowID] = 1
	m.serveFrame(w, flowID, m.Steps[0])
}

// serveFrame writes one scripted frame, stamped with the flow ID and an
// absolute submission target. Callers must hold m.mu.
func (m *FlowService) serveFrame(w http.ResponseWriter, flowID string, scripted *schema.FlowSession) {
	frame := *scripted
	frame.FlowID = flowID
	if !frame.Status.Terminal() {
		frame.Target = schema.SubmissionTarget{
			Method: http.MethodPost,
			URL:    url.Join(m.baseURL, SubmitPath),
		}
	}
	if frame.Status == schema.StatusSuccessCompleted && frame.Data == nil {
		assertion, err := m.CreateAssertion(flowID)
		if err != nil {
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}
		frame.Data = &schema.CompletionData{Assertion: assertion}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(frame)
}
