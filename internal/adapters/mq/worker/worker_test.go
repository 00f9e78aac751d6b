package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/eventreg/internal/adapters/mq/queue"
	worker "github.com/okian/eventreg/internal/adapters/mq/worker"
	model "github.com/okian/eventreg/internal/domain/model"
	"github.com/okian/eventreg/internal/domain/participant"
	logging "github.com/okian/eventreg/pkg/logger"
	"github.com/okian/eventreg/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

type mockNotifier struct {
	mu       sync.Mutex
	received []model.Notice
	failFor  map[string]error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{failFor: make(map[string]error)}
}

func (m *mockNotifier) Notify(_ context.Context, n model.Notice) error { //nolint:gocritic // hugeParam: mirrors the Notifier interface
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[n.Participant.ID]; ok {
		return err
	}
	m.received = append(m.received, n)
	return nil
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.received)
}

func notice(id string) model.Notice {
	return model.Notice{
		Kind:        model.NoticeRegistered,
		Participant: participant.Participant{ID: id, Name: "Ada"},
		At:          time.Now(),
	}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		n := newMockNotifier()
		m := metrics.NewManager(metrics.WithRuntimeCollectors(false))

		convey.Convey("When creating a worker with custom options", func() {
			w := worker.NewInMemoryWorker(q, n,
				worker.WithName("custom"),
				worker.WithNotifyTimeout(time.Second),
				worker.WithMetrics(m),
			)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewInMemoryWorker(q, n, worker.WithMetrics(m))
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			convey.Convey("And when delivering notices", func() {
				q.Enqueue(ctx, notice("p1"))
				q.Enqueue(ctx, notice("p2"))

				convey.Convey("Then the notifier should receive them", func() {
					convey.So(waitFor(func() bool { return n.count() == 2 }), convey.ShouldBeTrue)
					convey.So(waitFor(func() bool {
						return counter(m, "notifications_delivered_total") == 2
					}), convey.ShouldBeTrue)
				})
			})

			convey.Convey("And when the notifier fails", func() {
				n.failFor["bad"] = errors.New("discord unavailable")
				q.Enqueue(ctx, notice("bad"))
				q.Enqueue(ctx, notice("good"))

				convey.Convey("Then the failure is counted and the worker keeps going", func() {
					convey.So(waitFor(func() bool { return n.count() == 1 }), convey.ShouldBeTrue)
					convey.So(waitFor(func() bool {
						return counter(m, "notifications_failed_total") == 1
					}), convey.ShouldBeTrue)
				})
			})

			convey.Convey("And when the queue is closed", func() {
				q.Enqueue(ctx, notice("p1"))
				_ = q.Close()

				convey.Convey("Then it drains and stops", func() {
					sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer scancel()
					convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
					convey.So(n.count(), convey.ShouldEqual, 1)
				})
			})
		})

		convey.Convey("When context is cancelled", func() {
			w := worker.NewInMemoryWorker(q, n)
			ctx, cancel := context.WithCancel(context.Background())
			go w.Run(ctx)
			cancel()

			convey.Convey("Then worker should stop", func() {
				sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer scancel()
				convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When shutdown times out", func() {
			w := worker.NewInMemoryWorker(q, n)

			convey.Convey("Then Shutdown reports the deadline", func() {
				sctx, scancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
				defer scancel()
				err := w.Shutdown(sctx)
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a new worker pool", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		n := newMockNotifier()

		convey.Convey("When creating a pool with a non-positive count", func() {
			pool := worker.NewPool(0, q, n)

			convey.Convey("Then it falls back to the default size", func() {
				convey.So(pool.Size(), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When starting a pool and enqueuing notices", func() {
			pool := worker.NewPool(4, q, n)
			ctx := context.Background()
			pool.Start(ctx)

			for i := range 50 {
				q.Enqueue(ctx, notice(fmt.Sprintf("p%d", i)))
			}

			convey.Convey("Then shutdown drains every queued notice", func() {
				sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
				defer cancel()
				convey.So(pool.Shutdown(sctx), convey.ShouldBeNil)
				convey.So(n.count(), convey.ShouldEqual, 50)
				convey.So(q.Enqueue(ctx, notice("late")), convey.ShouldBeFalse)

				convey.Convey("And a second shutdown is a no-op", func() {
					convey.So(pool.Shutdown(sctx), convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When a pool drains the queue", func() {
			m := metrics.NewManager(metrics.WithRuntimeCollectors(false))
			mq := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithMetrics(m))
			pool := worker.NewPool(1, mq, n, worker.WithMetrics(m))
			ctx := context.Background()

			for i := range 3 {
				mq.Enqueue(ctx, notice(fmt.Sprintf("p%d", i)))
			}
			convey.So(gauge(m, "notification_queue_length"), convey.ShouldEqual, 3)
			pool.Start(ctx)

			convey.Convey("Then the queue length gauge falls back to zero", func() {
				convey.So(waitFor(func() bool {
					return counter(m, "notifications_delivered_total") == 3
				}), convey.ShouldBeTrue)
				convey.So(gauge(m, "notification_queue_length"), convey.ShouldEqual, 0)

				sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
				defer cancel()
				convey.So(pool.Shutdown(sctx), convey.ShouldBeNil)
			})
		})
	})
}

// counter reads a single unlabelled counter from the manager's registry.
func counter(m *metrics.Manager, name string) float64 {
	families, err := m.Registry().Gather()
	if err != nil {
		return -1
	}
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) == 1 {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

// gauge reads a single unlabelled gauge from the manager's registry.
func gauge(m *metrics.Manager, name string) float64 {
	families, err := m.Registry().Gather()
	if err != nil {
		return -1
	}
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) == 1 {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return 0
}
