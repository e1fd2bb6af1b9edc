package mock

import (
	"encoding/json"
	"net/http"

	"github.com/embedid/authflow/schema"
)

// defaultSubmitHandler handles flow submission requests
func (m *FlowService) defaultSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var payload schema.SubmissionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions = append(m.submissions, payload)
	next, ok := m.flows[payload.FlowID]
	if !ok {
		http.Error(w, "Unknown flow", http.StatusNotFound)
		return
	}
	if next >= len(m.Steps) {
		http.Error(w, "Flow already completed", http.StatusBadRequest)
		return
	}
	m.flows[payload.FlowID] = next + 1
	m.serveFrame(w, payload.FlowID, m.Steps[next])
}
