package monitor

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/minirds/minirds/pkg/metrics"
	"github.com/minirds/minirds/pkg/station"
)

func newTestAPI() *API {
	return NewAPI(station.New(), metrics.NewCollector(), nil)
}

func TestAPI_HandleStatus(t *testing.T) {
	api := newTestAPI()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()

	api.HandleStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestAPI_HandleStatus_RejectsNonGet(t *testing.T) {
	api := newTestAPI()
	req := httptest.NewRequest(http.MethodPost, "/api/status", nil)
	rec := httptest.NewRecorder()

	api.HandleStatus(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status code = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestAPI_HandleStation(t *testing.T) {
	store := station.New()
	if err := store.SetPS("HELLO"); err != nil {
		t.Fatalf("SetPS: %v", err)
	}
	api := NewAPI(store, metrics.NewCollector(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/station", nil)
	rec := httptest.NewRecorder()
	api.HandleStation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "HELLO") {
		t.Errorf("response body = %q, want it to contain PS value", rec.Body.String())
	}
}

func TestAPI_HandleMetrics(t *testing.T) {
	coll := metrics.NewCollector()
	coll.CommandApplied()
	api := NewAPI(station.New(), coll, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	rec := httptest.NewRecorder()
	api.HandleMetrics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "commands_applied") {
		t.Errorf("response body = %q, want commands_applied field", rec.Body.String())
	}
}
