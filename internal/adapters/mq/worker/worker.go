// Package worker drains registration notices off the queue and hands them to a notifier.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/eventreg/internal/domain/model"
	"github.com/okian/eventreg/pkg/logger"
	"github.com/okian/eventreg/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 2
	defaultNotifyTimeout  = 10 * time.Second
)

// Notice abstracts what workers read off the queue.
type Notice = model.Notice

// Notifier delivers a single notice to its destination.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// Queue defines how workers receive notices.
type Queue interface {
	Dequeue() <-chan Notice
}

// Worker processes notices using the provided notifier.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue is closed.
	Run(ctx context.Context)

	// Shutdown waits for the worker to drain and stop.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for delivering notices.
type InMemoryWorker struct {
	queue         Queue
	notifier      Notifier
	name          string
	notifyTimeout time.Duration
	metrics       *metrics.Manager

	done chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, notifier Notifier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:         queue,
		notifier:      notifier,
		name:          "worker",
		notifyTimeout: defaultNotifyTimeout,
		done:          make(chan struct{}),
		logger:        logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop. Closing the queue lets the worker drain what
// is left and return.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	notices := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notices:
			if !ok {
				return
			}
			w.metrics.SetNotificationQueueLength(len(notices))
			if err := w.deliver(ctx, n); err != nil {
				w.logger.Error(ctx, "error delivering notice",
					logger.String("participantID", n.Participant.ID),
					logger.String("kind", string(n.Kind)),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown waits for the worker loop to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) deliver(ctx context.Context, n Notice) error { //nolint:gocritic // hugeParam: Notice is passed by value for channel semantics
	ctx, cancel := context.WithTimeout(ctx, w.notifyTimeout)
	defer cancel()

	if err := w.notifier.Notify(ctx, n); err != nil {
		w.metrics.RecordNotificationFailed()
		return fmt.Errorf("notify %s: %w", n.Kind, err)
	}
	w.metrics.RecordNotificationDelivered()
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	cancel context.CancelFunc
	once   sync.Once

	logger logger.Logger
}

// NewPool creates a new worker pool. Worker options are applied to every worker.
func NewPool(workerCount int, queue Queue, notifier Notifier, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := range workerCount {
		workerOpts := append([]Option{WithName(fmt.Sprintf("notify-worker-%d", i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(queue, notifier, workerOpts...)
	}

	return pool
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
	p.logger.Info(ctx, "notification workers started", logger.Int("workers", len(p.workers)))
}

// Shutdown closes the queue and waits for the workers to drain it. Workers
// still busy when ctx expires are cancelled.
func (p *Pool) Shutdown(ctx context.Context) error {
	var err error
	p.once.Do(func() {
		if closer, ok := p.queue.(interface{ Close() error }); ok {
			if cerr := closer.Close(); cerr != nil {
				p.logger.Error(ctx, "error closing queue", logger.Error(cerr))
			}
		}

		for i, worker := range p.workers {
			if werr := worker.Shutdown(ctx); werr != nil {
				p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
				err = werr
				break
			}
		}

		if p.cancel != nil {
			p.cancel()
		}
	})
	return err
}
