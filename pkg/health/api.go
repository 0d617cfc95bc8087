package health

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version,omitempty"`
	Uptime    string `json:"uptime"`
	GoVersion string `json:"go_version"`
	Backend   struct {
		URL       string `json:"url"`
		Reachable bool   `json:"reachable"`
		Latency   string `json:"latency,omitempty"`
		Error     string `json:"error,omitempty"`
	} `json:"backend"`
	Session struct {
		Store         string `json:"store"`
		Authenticated bool   `json:"authenticated"`
	} `json:"session"`
	Memory struct {
		Alloc      uint64 `json:"alloc"`      // bytes allocated and not yet freed
		TotalAlloc uint64 `json:"totalAlloc"` // total bytes allocated (even if freed)
		Sys        uint64 `json:"sys"`        // bytes obtained from system
		NumGC      uint32 `json:"numGC"`      // number of garbage collections
	} `json:"memory"`
}

const Version = "1.0.0"

var startTime = time.Now()

// Reporter gathers the client's status. Probe checks the REST backend and
// Authenticated the local session; either may be nil.
type Reporter struct {
	BackendURL    string
	SessionStore  string
	Probe         func(ctx context.Context) error
	Authenticated func(ctx context.Context) bool
}

func (r *Reporter) Report(ctx context.Context) HealthResponse {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
		Uptime:    time.Since(startTime).String(),
		GoVersion: runtime.Version(),
	}

	health.Backend.URL = r.BackendURL
	if r.Probe != nil {
		began := time.Now()
		if err := r.Probe(ctx); err != nil {
			health.Status = "degraded"
			health.Backend.Error = err.Error()
		} else {
			health.Backend.Reachable = true
			health.Backend.Latency = time.Since(began).Round(time.Millisecond).String()
		}
	}

	health.Session.Store = r.SessionStore
	if r.Authenticated != nil {
		health.Session.Authenticated = r.Authenticated(ctx)
	}

	health.Memory.Alloc = memStats.Alloc
	health.Memory.TotalAlloc = memStats.TotalAlloc
	health.Memory.Sys = memStats.Sys
	health.Memory.NumGC = memStats.NumGC

	return health
}

func HealthGet(r *Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		health := r.Report(req.Context())
		code := http.StatusOK
		if health.Status != "healthy" {
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)

		if err := json.NewEncoder(w).Encode(health); err != nil {
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Failed to encode health check response",
			})
			return
		}
	}
}
