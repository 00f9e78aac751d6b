// Package service provides the participant service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/eventreg/internal/adapters/repository"
	"github.com/okian/eventreg/internal/domain/model"
	"github.com/okian/eventreg/internal/domain/participant"
	"github.com/okian/eventreg/pkg/logger"
	"github.com/okian/eventreg/pkg/metrics"
)

const defaultGaugeRefreshInterval = 10 * time.Second

// Notices accepts registration notices for asynchronous delivery.
type Notices interface {
	Enqueue(ctx context.Context, n model.Notice) bool
}

// Service validates participant payloads, persists them through the store
// and keeps the participant gauge current.
type Service struct {
	mu sync.Mutex

	store   repository.Store
	metrics *metrics.Manager
	notices Notices

	refreshInterval time.Duration

	// State
	started bool
	cancel  context.CancelFunc
	done    chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the manager whose participant gauge the service maintains.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithGaugeRefreshInterval sets how often the participant gauge is refreshed.
func WithGaugeRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithNotices enables registration notices on successful mutations.
func WithNotices(n Notices) Option {
	return func(s *Service) {
		s.notices = n
	}
}

// New constructs a Service backed by store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:           store,
		refreshInterval: defaultGaugeRefreshInterval,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	return s
}

// Start launches the participant gauge refresher. It is a no-op when the
// service is already running.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.refreshLoop(ctx, s.done)

	s.started = true
	s.logger.Info(ctx, "participant service started",
		logger.Duration("gaugeRefreshInterval", s.refreshInterval),
	)
	return nil
}

// Stop cancels the gauge refresher and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.cancel()
	<-s.done

	s.started = false
	s.logger.Info(context.Background(), "participant service stopped")
}

func (s *Service) refreshLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	_ = s.RefreshParticipantGauge(ctx)

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.RefreshParticipantGauge(ctx)
		}
	}
}

// RefreshParticipantGauge sets participants_total from the store. On failure
// the error is logged and the gauge keeps its previous value.
func (s *Service) RefreshParticipantGauge(ctx context.Context) error {
	n, err := s.store.Count(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn(ctx, "error updating participant count", logger.Error(err))
		}
		return fmt.Errorf("count participants: %w", err)
	}
	s.metrics.SetParticipants(n)
	return nil
}

// Create validates f and registers a new participant.
func (s *Service) Create(ctx context.Context, f participant.Fields) (participant.Participant, error) {
	if err := participant.Validate(f); err != nil {
		return participant.Participant{}, err
	}

	p, err := s.store.Create(ctx, f)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("create participant: %w", err)
	}

	s.notify(ctx, model.NoticeRegistered, p)
	return p, nil
}

// List returns every participant, newest registration first.
func (s *Service) List(ctx context.Context) ([]participant.Participant, error) {
	ps, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return ps, nil
}

// Get returns a single participant.
func (s *Service) Get(ctx context.Context, id string) (participant.Participant, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant %s: %w", id, err)
	}
	return p, nil
}

// Update validates patch and applies it to the participant with id.
func (s *Service) Update(ctx context.Context, id string, patch participant.Patch) (participant.Participant, error) {
	if err := participant.ValidatePatch(patch); err != nil {
		return participant.Participant{}, err
	}

	p, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("update participant %s: %w", id, err)
	}

	s.notify(ctx, model.NoticeUpdated, p)
	return p, nil
}

// Delete removes the participant with id.
func (s *Service) Delete(ctx context.Context, id string) error {
	// Read first so the cancellation notice can name the participant.
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("delete participant %s: %w", id, err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete participant %s: %w", id, err)
	}

	s.notify(ctx, model.NoticeCancelled, p)
	return nil
}

func (s *Service) notify(ctx context.Context, kind model.NoticeKind, p participant.Participant) { //nolint:gocritic // hugeParam: copied into the notice anyway
	if s.notices == nil {
		return
	}
	n := model.Notice{Kind: kind, Participant: p, At: time.Now().UTC()}
	if !s.notices.Enqueue(ctx, n) {
		s.logger.Warn(ctx, "notice dropped",
			logger.String("participantID", p.ID),
			logger.String("kind", string(kind)),
		)
	}
}
