package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jonwraymond/netresilience/netstatus"
)

// StatusResponse is the JSON body served by StatusHandler.
type StatusResponse struct {
	Status          string `json:"status"` // online|offline
	Connected       bool   `json:"connected"`
	ServerReachable bool   `json:"server_reachable"`
	LastChecked     string `json:"last_checked,omitempty"`
}

// NewStatusResponse renders a tracker snapshot.
func NewStatusResponse(s netstatus.Status) StatusResponse {
	resp := StatusResponse{
		Status:          "offline",
		Connected:       s.Connected,
		ServerReachable: s.ServerReachable,
	}
	if s.Online() {
		resp.Status = "online"
	}
	if s.Checked() {
		resp.LastChecked = s.LastChecked.UTC().Format(time.RFC3339)
	}
	return resp
}

// ProbeResponse is the JSON body served by ProbeHandler.
type ProbeResponse struct {
	Status     string `json:"status"` // reachable|unreachable
	BaseURL    string `json:"base_url"`
	DurationMs int64  `json:"duration_ms"`
	CheckedAt  string `json:"checked_at,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Error      string `json:"error,omitempty"`
}

// NewProbeResponse renders a probe result.
func NewProbeResponse(r Result) ProbeResponse {
	resp := ProbeResponse{
		Status:     "unreachable",
		BaseURL:    r.BaseURL,
		DurationMs: r.Duration.Milliseconds(),
		Reason:     r.Reason(),
	}
	if r.Reachable {
		resp.Status = "reachable"
	}
	if !r.CheckedAt.IsZero() {
		resp.CheckedAt = r.CheckedAt.UTC().Format(time.RFC3339)
	}
	if r.Err != nil {
		resp.Error = r.Err.Error()
	}
	return resp
}

// LivenessHandler answers 200 while the process runs.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// StatusHandler serves the tracker's current snapshot without probing:
// 200 when online, 503 otherwise.
func StatusHandler(tracker *netstatus.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := tracker.Status()
		writeJSON(w, s.Online(), NewStatusResponse(s))
	}
}

// ProbeHandler runs checker for each request: 200 when reachable, 503
// otherwise.
func ProbeHandler(checker Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := checker.Check(r.Context())
		writeJSON(w, result.Reachable, NewProbeResponse(result))
	}
}

func writeJSON(w http.ResponseWriter, ok bool, body any) {
	w.Header().Set("Content-Type", "application/json")
	if ok {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(body)
}

// RegisterHandlers mounts /healthz and /status, and /probe when checker is
// non-nil.
func RegisterHandlers(mux *http.ServeMux, tracker *netstatus.Tracker, checker Checker) {
	mux.HandleFunc("/healthz", LivenessHandler())
	mux.HandleFunc("/status", StatusHandler(tracker))
	if checker != nil {
		mux.HandleFunc("/probe", ProbeHandler(checker))
	}
}
