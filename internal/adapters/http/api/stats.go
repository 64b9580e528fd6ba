package api

import (
	"math"
	"net/http"
	"time"
)

// StatsProvider reports pipeline counters for /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the provider's counters plus server uptime.
type StatsHandler struct {
	provider StatsProvider
	started  time.Time
}

// NewStatsHandler creates a stats handler; uptime counts from this call.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider, started: time.Now()}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", NewKind("stats", ErrBadRequest))
		return
	}

	stats := make(map[string]interface{})
	for k, v := range h.provider.GetStats() {
		stats[k] = v
	}
	stats["uptimeSeconds"] = math.Round(time.Since(h.started).Seconds())

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, stats)
}
