package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedid/authflow/schema"
)

func TestInitialize(t *testing.T) {
	var gotPath, gotApplication string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req struct {
			ApplicationID string `json:"applicationId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotApplication = req.ApplicationID
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(schema.FlowSession{
			FlowID: "f-1",
			Status: schema.StatusInProgress,
			Target: schema.SubmissionTarget{Method: http.MethodPost, URL: baseURL(r) + "/flow/submit"},
		})
	}))
	defer server.Close()

	service := New(server.URL, WithApplicationID("app-1"))
	session, err := service.Initialize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/flow/initialize", gotPath)
	assert.Equal(t, "app-1", gotApplication)
	assert.Equal(t, "f-1", session.FlowID)
	assert.Equal(t, schema.StatusInProgress, session.Status)
}

// baseURL rebuilds the test server's base URL from the incoming request.
func baseURL(r *http.Request) string { return "http://" + r.Host }

func TestSubmitUsesTargetVerbatim(t *testing.T) {
	var gotMethod, gotPath string
	var gotPayload schema.SubmissionPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(schema.FlowSession{FlowID: "f-1", Status: schema.StatusSuccessCompleted})
	}))
	defer srv.Close()

	service := New(srv.URL)
	session, err := service.Submit(context.Background(),
		&schema.SubmissionPayload{
			FlowID: "f-1",
			SelectedAuthenticator: &schema.SelectedAuthenticator{
				AuthenticatorID: "basic",
				Params:          map[string]string{"username": "kai"},
			},
		},
		schema.SubmissionTarget{Method: http.MethodPut, URL: srv.URL + "/custom/submit"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/custom/submit", gotPath)
	assert.Equal(t, "f-1", gotPayload.FlowID)
	assert.Equal(t, "basic", gotPayload.SelectedAuthenticator.AuthenticatorID)
	assert.Equal(t, schema.StatusSuccessCompleted, session.Status)
}

func TestErrorStatusSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	service := New(srv.URL)
	_, err := service.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestMalformedResponseSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"flowStatus": "NOT_A_STATUS"}`))
	}))
	defer srv.Close()

	service := New(srv.URL)
	_, err := service.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode flow response")
}
