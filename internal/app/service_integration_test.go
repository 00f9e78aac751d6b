package service_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/eventreg/internal/adapters/mq/queue"
	"github.com/okian/eventreg/internal/adapters/mq/worker"
	"github.com/okian/eventreg/internal/adapters/notifier"
	service "github.com/okian/eventreg/internal/app"
	"github.com/okian/eventreg/internal/domain/participant"
	"github.com/okian/eventreg/pkg/logger"
	"github.com/okian/eventreg/pkg/metrics"
)

// syncBuffer guards a bytes.Buffer shared by worker goroutines and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service wired to the notification pipeline", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		out := &syncBuffer{}
		log, err := newTestLogger(out)
		So(err, ShouldBeNil)

		m := metrics.NewManager(metrics.WithRuntimeCollectors(false))
		store := openStore(t)
		defer func() { _ = store.Close() }()

		q := queue.NewInMemoryQueue(queue.WithCapacity(16), queue.WithMetrics(m))
		pool := worker.NewPool(2, q, notifier.NewLog(log), worker.WithMetrics(m))
		pool.Start(ctx)

		svc := service.New(store,
			service.WithMetrics(m),
			service.WithNotices(q),
			service.WithGaugeRefreshInterval(time.Hour),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When participants register, update and cancel", func() {
			a, err := svc.Create(ctx, validFields("ada"))
			So(err, ShouldBeNil)
			_, err = svc.Update(ctx, a.ID, participant.Patch{EventName: strPtr("GopherCon")})
			So(err, ShouldBeNil)
			So(svc.Delete(ctx, a.ID), ShouldBeNil)

			So(pool.Shutdown(ctx), ShouldBeNil)

			Convey("Then every change is delivered", func() {
				logged := out.String()
				So(logged, ShouldContainSubstring, "participant registered")
				So(logged, ShouldContainSubstring, "participant updated")
				So(logged, ShouldContainSubstring, "participant cancelled")
				So(logged, ShouldContainSubstring, "participantID="+a.ID)
			})
		})

		Convey("When the pipeline is shut down", func() {
			So(pool.Shutdown(ctx), ShouldBeNil)

			Convey("Then mutations still succeed and the notice is dropped", func() {
				_, err := svc.Create(ctx, validFields("late"))
				So(err, ShouldBeNil)
				So(q.Len(), ShouldEqual, 0)
			})
		})
	})
}

// newTestLogger points the global logger at w and returns a named logger.
func newTestLogger(w *syncBuffer) (logger.Logger, error) {
	if err := logger.Init(logger.WithOutput(w)); err != nil {
		return nil, err
	}
	return logger.Named("notifier"), nil
}
