package queue

import "github.com/okian/eventreg/pkg/metrics"

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of queued notices.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithMetrics reports queue length and drops on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(q *InMemoryQueue) {
		q.metrics = m
	}
}
