package monitor

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/minirds/minirds/pkg/logger"
	"github.com/minirds/minirds/pkg/metrics"
	"github.com/minirds/minirds/pkg/station"
)

// API handles the dashboard's REST endpoints.
type API struct {
	store   *station.Store
	metrics *metrics.Collector
	logger  *logger.Logger
	started time.Time
}

// NewAPI creates a new API instance.
func NewAPI(store *station.Store, coll *metrics.Collector, log *logger.Logger) *API {
	return &API{store: store, metrics: coll, logger: log, started: time.Now()}
}

// HandleStatus handles GET /api/status.
func (a *API) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "running",
		"service": "minirds",
		"uptime":  humanize.RelTime(a.started, time.Now(), "", ""),
	})
}

// HandleStation handles GET /api/station, returning the current
// Program Information Store snapshot.
func (a *API) HandleStation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(a.store.Params())
}

// HandleMetrics handles GET /api/metrics, returning a JSON summary
// alongside the Prometheus exposition at /metrics.
func (a *API) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"groups_by_type":    a.metrics.GetGroupsByType(),
		"commands_applied":  a.metrics.GetCommandsApplied(),
		"commands_rejected": a.metrics.GetCommandsRejected(),
		"samples_generated": a.metrics.GetSamplesGenerated(),
		"samples_clipped":   a.metrics.GetSamplesClipped(),
		"sink_writes":       a.metrics.GetSinkWrites(),
		"sink_errors":       a.metrics.GetSinkErrors(),
		"volume":            a.metrics.GetVolume(),
	})
}
