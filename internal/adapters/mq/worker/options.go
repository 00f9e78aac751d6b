package worker

import (
	"time"

	"github.com/okian/eventreg/pkg/logger"
	"github.com/okian/eventreg/pkg/metrics"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithNotifyTimeout bounds a single delivery attempt.
func WithNotifyTimeout(d time.Duration) Option {
	return func(w *InMemoryWorker) {
		if d > 0 {
			w.notifyTimeout = d
		}
	}
}

// WithMetrics records delivered and failed notices on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(w *InMemoryWorker) {
		w.metrics = m
	}
}
