package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/eventreg/pkg/metrics"
)

// Route label values for requests without an API route pattern.
const (
	routeStatic    = "static"
	routeUnmatched = "unmatched"
)

// MetricsMiddleware records the duration and count of every request,
// labelled with the matched route pattern so label cardinality stays bounded.
func MetricsMiddleware(m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			m.ObserveHTTPRequest(r.Method, routeLabel(r), wrapped.statusCode, time.Since(start))
		})
	}
}

// routeLabel returns the chi pattern that served r. The pattern is only
// complete once routing has finished.
func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return routeUnmatched
	}
	switch pattern := rctx.RoutePattern(); pattern {
	case "":
		return routeUnmatched
	case "/*":
		return routeStatic
	default:
		return pattern
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
