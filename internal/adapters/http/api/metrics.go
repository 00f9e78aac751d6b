package api

import (
	"net/http"

	"github.com/okian/eventreg/pkg/metrics"
)

// MetricsHandler serves the Prometheus exposition after refreshing the
// participant gauge. A failed refresh still serves the previous value.
type MetricsHandler struct {
	refresher GaugeRefresher
	exporter  http.Handler
}

// NewMetricsHandler creates a metrics handler for m.
func NewMetricsHandler(refresher GaugeRefresher, m *metrics.Manager) *MetricsHandler {
	h := &MetricsHandler{refresher: refresher}
	if m != nil {
		h.exporter = m.Handler()
	}
	return h
}

func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		http.NotFound(w, r)
		return
	}
	if h.refresher != nil {
		_ = h.refresher.RefreshParticipantGauge(r.Context())
	}
	h.exporter.ServeHTTP(w, r)
}
