// Package rest serves the console's ops endpoint: liveness, health and
// Prometheus metrics while the console is watching for live changes.
package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// pinger checks a backing database.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	snapshots pinger
	records   func() int
	version   string
}

// NewHealthHandler creates a HealthHandler. snapshots may be nil when
// snapshot storage is disabled.
func NewHealthHandler(snapshots pinger, records func() int, version string) *HealthHandler {
	return &HealthHandler{snapshots: snapshots, records: records, version: version}
}

// HealthResponse is the JSON response for /live and /health.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Records    *int                  `json:"records,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health reports the cache size and pings the snapshot database, if any.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Timestamp: time.Now(),
	}
	if h.records != nil {
		n := h.records()
		resp.Records = &n
	}

	if h.snapshots != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		start := time.Now()
		err := h.snapshots.Ping(ctx)
		latency := time.Since(start)

		comp := CompStatus{Status: "ok", Latency: latency.String()}
		if err != nil {
			comp = CompStatus{Status: "down"}
			resp.Status = "down"
		}
		resp.Components = map[string]CompStatus{"snapshots": comp}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
