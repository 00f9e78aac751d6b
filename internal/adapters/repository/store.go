// Package repository defines the participant store and its implementations.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/eventreg/internal/domain/participant"
	"github.com/okian/eventreg/pkg/metrics"
)

// Store persists participant documents. Implementations assign ids and
// default registration dates; callers validate payloads beforehand.
type Store interface {
	// Create inserts a new participant and returns it with id and date set.
	Create(ctx context.Context, f participant.Fields) (participant.Participant, error)

	// List returns every participant ordered by registration date, newest first.
	List(ctx context.Context) ([]participant.Participant, error)

	// Get returns the participant with id, or ErrNotFound.
	Get(ctx context.Context, id string) (participant.Participant, error)

	// Update applies patch to the participant with id and returns the
	// result, or ErrNotFound.
	Update(ctx context.Context, id string, patch participant.Patch) (participant.Participant, error)

	// Delete removes the participant with id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored participants.
	Count(ctx context.Context) (int64, error)

	Close() error
}

// Option applies a configuration option to Open.
type Option func(*openOptions)

type openOptions struct {
	metrics *metrics.Manager
}

// WithMetrics records the latency of every store call on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(o *openOptions) {
		o.metrics = m
	}
}

// Open connects to the store named by dsn. Supported schemes:
//
//	postgres://, postgresql://  PostgreSQL, documents kept as JSONB
//	sqlite://<path>             embedded SQLite through gorm (<path> may be :memory:)
func Open(ctx context.Context, dsn string, opts ...Option) (Store, error) {
	o := openOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return nil, fmt.Errorf("%w: missing scheme", ErrUnsupportedDSN)
	}

	var (
		s   Store
		err error
	)
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		s, err = OpenPostgres(ctx, dsn)
	case "sqlite":
		s, err = OpenSQLite(ctx, rest)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, scheme)
	}
	if err != nil {
		return nil, err
	}

	if o.metrics != nil {
		s = Instrument(s, o.metrics)
	}
	return s, nil
}

// stamp normalizes a registration date, defaulting to now.
func stamp(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Truncate(time.Microsecond)
}
