// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/eventreg/internal/adapters/http/site"
	"github.com/okian/eventreg/internal/adapters/http/swagger"
	"github.com/okian/eventreg/internal/domain/participant"
	"github.com/okian/eventreg/pkg/logger"
	"github.com/okian/eventreg/pkg/metrics"
)

const maxBodyBytes = 1 << 20

// Participants is the participant service the handlers call.
type Participants interface {
	Create(ctx context.Context, f participant.Fields) (participant.Participant, error)
	List(ctx context.Context) ([]participant.Participant, error)
	Get(ctx context.Context, id string) (participant.Participant, error)
	Update(ctx context.Context, id string, patch participant.Patch) (participant.Participant, error)
	Delete(ctx context.Context, id string) error
}

// GaugeRefresher brings participants_total up to date before a scrape.
type GaugeRefresher interface {
	RefreshParticipantGauge(ctx context.Context) error
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Participants
	GaugeRefresher
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	participantsHandler *ParticipantsHandler
	metricsHandler      *MetricsHandler

	metrics     *metrics.Manager
	corsOrigins []string
	logger      logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		corsOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}

	s.healthHandler = NewHealthHandler()
	s.participantsHandler = NewParticipantsHandler(deps, s.logger)
	s.metricsHandler = NewMetricsHandler(deps, s.metrics)
	return s
}

// Routes returns the complete HTTP handler: API, metrics, health, docs and
// the static client.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(MetricsMiddleware(s.metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
	}))

	s.Register(r)
	swagger.Register(r)
	site.Register(r)

	return r
}

// Register attaches the API, health and metrics routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.healthHandler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", s.metricsHandler)

	p := s.participantsHandler
	r.Post("/api/participants", p.HandleCreate)
	r.Get("/api/participants", p.HandleList)
	r.Get("/api/participants/{id}", p.HandleGet)
	r.Put("/api/participants/{id}", p.HandleUpdate)
	r.Delete("/api/participants/{id}", p.HandleDelete)
}

// messageResponse is the envelope of every participant API reply except
// plain reads.
type messageResponse struct {
	Message     string                   `json:"message"`
	Participant *participant.Participant `json:"participant,omitempty"`
}

type errorResponse struct {
	Message string                   `json:"message"`
	Error   string                   `json:"error,omitempty"`
	Fields  []participant.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
		var verr *participant.ValidationError
		if errors.As(err, &verr) {
			resp.Fields = verr.Fields
		}
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a single JSON value from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
