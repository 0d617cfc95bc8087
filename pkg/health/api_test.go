package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chrisdamba/daytrip/pkg/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthGet(t *testing.T) {
	healthy := &health.Reporter{
		BackendURL:    "http://localhost:8000",
		SessionStore:  "badger",
		Probe:         func(ctx context.Context) error { return nil },
		Authenticated: func(ctx context.Context) bool { return true },
	}
	down := &health.Reporter{
		BackendURL:   "http://localhost:8000",
		SessionStore: "postgres",
		Probe:        func(ctx context.Context) error { return errors.New("connection refused") },
	}

	tests := []struct {
		name          string
		reporter      *health.Reporter
		method        string
		expectedCode  int
		checkResponse bool
	}{
		{
			name:          "Success GET request",
			reporter:      healthy,
			method:        http.MethodGet,
			expectedCode:  http.StatusOK,
			checkResponse: true,
		},
		{
			name:          "Backend unreachable",
			reporter:      down,
			method:        http.MethodGet,
			expectedCode:  http.StatusServiceUnavailable,
			checkResponse: true,
		},
		{
			name:          "Invalid POST request",
			reporter:      healthy,
			method:        http.MethodPost,
			expectedCode:  http.StatusMethodNotAllowed,
			checkResponse: false,
		},
		{
			name:          "Invalid DELETE request",
			reporter:      healthy,
			method:        http.MethodDelete,
			expectedCode:  http.StatusMethodNotAllowed,
			checkResponse: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/status", nil)
			w := httptest.NewRecorder()

			health.HealthGet(tt.reporter)(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if !tt.checkResponse {
				return
			}

			var res health.HealthResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.NotEmpty(t, res.GoVersion)
			assert.NotZero(t, res.Memory.Sys)
			_, err := time.Parse(time.RFC3339, res.Timestamp)
			assert.NoError(t, err)
			assert.Equal(t, tt.reporter.SessionStore, res.Session.Store)
			if tt.expectedCode == http.StatusOK {
				assert.Equal(t, "healthy", res.Status)
				assert.True(t, res.Backend.Reachable)
				assert.True(t, res.Session.Authenticated)
			} else {
				assert.Equal(t, "degraded", res.Status)
				assert.False(t, res.Backend.Reachable)
				assert.Equal(t, "connection refused", res.Backend.Error)
			}
		})
	}
}
