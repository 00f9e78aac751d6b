// Package queue defines the contract for enqueuing and consuming registration
// notices. The implementation is an in-memory bounded channel.
package queue

import (
	"context"
	"sync"

	"github.com/okian/eventreg/internal/domain/model"
	"github.com/okian/eventreg/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 1024
)

// Notice is the payload type flowing through the queue.
type Notice = model.Notice

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a notice to the queue.
	// Returns false if the queue is full or closed and the notice was dropped.
	Enqueue(ctx context.Context, n Notice) bool

	// Dequeue returns the channel notices are delivered on.
	// The channel is closed once the queue is closed and drained.
	Dequeue() <-chan Notice

	// Len returns the current number of queued notices.
	Len() int

	// Close stops accepting notices. Queued notices can still be dequeued.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	notices  chan Notice
	capacity int
	metrics  *metrics.Manager

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.notices = make(chan Notice, q.capacity)
	q.metrics.SetNotificationQueueLength(0)

	return q
}

// Enqueue adds a notice to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, n Notice) bool { //nolint:gocritic // hugeParam: Notice is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed || ctx.Err() != nil {
		q.metrics.RecordNotificationDropped()
		return false
	}

	select {
	case q.notices <- n:
		q.metrics.RecordNotificationEnqueued()
		q.metrics.SetNotificationQueueLength(len(q.notices))
		return true
	default:
		q.metrics.RecordNotificationDropped()
		return false
	}
}

// Dequeue returns the channel notices are delivered on.
func (q *InMemoryQueue) Dequeue() <-chan Notice {
	return q.notices
}

// Len returns the current number of queued notices.
func (q *InMemoryQueue) Len() int {
	size := len(q.notices)
	q.metrics.SetNotificationQueueLength(size)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.notices)
	q.closed = true

	return nil
}
