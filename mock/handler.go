package mock

import (
	"net/http"
)

// Handler routes HTTP requests to the appropriate mock flow service endpoints.
type Handler struct {
	// Service is the mock flow service with endpoint handlers.
	Service *FlowService
}

// ServeHTTP dispatches incoming HTTP requests based on URL path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/flow/initialize":
		if h.Service.InitializeHandler != nil {
			h.Service.InitializeHandler(w, r)
		} else {
			h.Service.defaultInitializeHandler(w, r)
		}
	case "/flow/submit":
		if h.Service.SubmitHandler != nil {
			h.Service.SubmitHandler(w, r)
		} else {
			h.Service.defaultSubmitHandler(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}
