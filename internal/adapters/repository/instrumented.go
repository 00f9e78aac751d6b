package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/eventreg/internal/domain/participant"
	"github.com/okian/eventreg/pkg/metrics"
)

// instrumentedStore records the latency and outcome of every call.
type instrumentedStore struct {
	next    Store
	metrics *metrics.Manager
}

// Instrument wraps s so each call is observed on m.
func Instrument(s Store, m *metrics.Manager) Store {
	return &instrumentedStore{next: s, metrics: m}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	// A missing participant is an answer, not a store failure.
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	s.metrics.ObserveStoreOperation(op, err, time.Since(start))
}

func (s *instrumentedStore) Create(ctx context.Context, f participant.Fields) (p participant.Participant, err error) {
	defer func(start time.Time) { s.observe("create", start, err) }(time.Now())
	return s.next.Create(ctx, f)
}

func (s *instrumentedStore) List(ctx context.Context) (ps []participant.Participant, err error) {
	defer func(start time.Time) { s.observe("list", start, err) }(time.Now())
	return s.next.List(ctx)
}

func (s *instrumentedStore) Get(ctx context.Context, id string) (p participant.Participant, err error) {
	defer func(start time.Time) { s.observe("get", start, err) }(time.Now())
	return s.next.Get(ctx, id)
}

func (s *instrumentedStore) Update(ctx context.Context, id string, patch participant.Patch) (p participant.Participant, err error) {
	defer func(start time.Time) { s.observe("update", start, err) }(time.Now())
	return s.next.Update(ctx, id, patch)
}

func (s *instrumentedStore) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.observe("delete", start, err) }(time.Now())
	return s.next.Delete(ctx, id)
}

func (s *instrumentedStore) Count(ctx context.Context) (n int64, err error) {
	defer func(start time.Time) { s.observe("count", start, err) }(time.Now())
	return s.next.Count(ctx)
}

func (s *instrumentedStore) Close() error {
	return s.next.Close()
}
