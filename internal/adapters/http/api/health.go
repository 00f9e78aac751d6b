package api

import (
	"net/http"
	"time"
)

// timestampLayout renders UTC instants with millisecond precision and a Z suffix.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// HealthHandler handles health check requests.
type HealthHandler struct {
	now func() time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HandleHealth handles GET /health. It reports liveness only and never
// touches the store.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(timestampLayout),
	})
}
