package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonwraymond/netresilience/netstatus"
)

func TestLivenessHandler(t *testing.T) {
	handler := LivenessHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("Body = %v, want 'OK'", rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "text/plain" {
		t.Errorf("Content-Type = %v, want 'text/plain'", rec.Header().Get("Content-Type"))
	}
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) StatusResponse {
	t.Helper()
	var resp StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestStatusHandler_Initial(t *testing.T) {
	handler := StatusHandler(netstatus.NewTracker())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %v, want 'application/json'", rec.Header().Get("Content-Type"))
	}

	resp := decodeStatus(t, rec)
	if resp.Status != "online" || !resp.Connected || !resp.ServerReachable {
		t.Errorf("response = %+v, want online", resp)
	}
	if resp.LastChecked != "" {
		t.Errorf("LastChecked = %q, want empty before first probe", resp.LastChecked)
	}
}

func TestStatusHandler_Unreachable(t *testing.T) {
	tracker := netstatus.NewTracker()
	at := time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC)
	tracker.RecordProbe(false, at)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	StatusHandler(tracker)(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	resp := decodeStatus(t, rec)
	if resp.Status != "offline" || resp.ServerReachable {
		t.Errorf("response = %+v, want offline", resp)
	}
	if resp.LastChecked != "2026-04-05T06:07:08Z" {
		t.Errorf("LastChecked = %q, want 2026-04-05T06:07:08Z", resp.LastChecked)
	}
}

func TestStatusHandler_Disconnected(t *testing.T) {
	tracker := netstatus.NewTracker()
	tracker.SetConnected(false)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	StatusHandler(tracker)(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if resp := decodeStatus(t, rec); resp.Connected {
		t.Errorf("Connected = true, want false")
	}
}

func TestProbeHandler(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		result     Result
		wantCode   int
		wantStatus string
		wantReason string
	}{
		{
			"reachable",
			Result{BaseURL: "http://api", Reachable: true, Duration: 10 * time.Millisecond, CheckedAt: at},
			http.StatusOK, "reachable", "",
		},
		{
			"unreachable",
			Result{BaseURL: "http://api", Err: errors.New("connection refused"), CheckedAt: at},
			http.StatusServiceUnavailable, "unreachable", "server unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := CheckFunc(func(ctx context.Context) Result {
				return tt.result
			})

			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			rec := httptest.NewRecorder()
			ProbeHandler(checker)(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantCode)
			}

			var resp ProbeResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != tt.wantStatus || resp.Reason != tt.wantReason {
				t.Errorf("status, reason = %q, %q, want %q, %q", resp.Status, resp.Reason, tt.wantStatus, tt.wantReason)
			}
			if resp.BaseURL != "http://api" || resp.CheckedAt != "2026-03-01T12:00:00Z" {
				t.Errorf("response = %+v", resp)
			}
			if tt.result.Err != nil && resp.Error != tt.result.Err.Error() {
				t.Errorf("error = %q, want %q", resp.Error, tt.result.Err.Error())
			}
		})
	}
}

func TestRegisterHandlers(t *testing.T) {
	tracker := netstatus.NewTracker()
	checker := CheckFunc(func(ctx context.Context) Result {
		return Result{Reachable: true}
	})

	mux := http.NewServeMux()
	RegisterHandlers(mux, tracker, checker)

	for _, path := range []string{"/healthz", "/status", "/probe"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: Status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}

func TestRegisterHandlers_NoChecker(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux, netstatus.NewTracker(), nil)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
