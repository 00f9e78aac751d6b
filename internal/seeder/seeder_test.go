package seeder

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/eventreg/internal/adapters/http/api"
	"github.com/okian/eventreg/internal/adapters/repository"
	service "github.com/okian/eventreg/internal/app"
	"github.com/okian/eventreg/pkg/logger"
	"github.com/okian/eventreg/pkg/metrics"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := repository.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	m := metrics.NewManager(metrics.WithRuntimeCollectors(false))
	svc := service.New(store, service.WithMetrics(m))
	srv := httptest.NewServer(api.NewServer(svc, api.WithMetrics(m)).Routes())
	t.Cleanup(func() {
		srv.Close()
		_ = store.Close()
	})
	return srv
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		srv := newTestServer(t)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("A seeding run registers, lists and counts every participant", func() {
			cfg := &Config{BaseURL: srv.URL, Count: 25, Workers: 4, Timeout: 5 * time.Second}

			stats, err := Run(ctx, cfg)
			So(err, ShouldBeNil)
			So(stats.Generated, ShouldEqual, 25)
			So(stats.Successful, ShouldEqual, 25)
			So(stats.Failed, ShouldEqual, 0)
			So(stats.Listed, ShouldEqual, 25)
			So(stats.GaugeReported, ShouldEqual, 25)
		})

		Convey("A second run sees the participants of the first", func() {
			cfg := &Config{BaseURL: srv.URL, Count: 5, Workers: 2, Timeout: 5 * time.Second, EventName: "Conf"}

			_, err := Run(ctx, cfg)
			So(err, ShouldBeNil)
			stats, err := Run(ctx, cfg)
			So(err, ShouldBeNil)
			So(stats.Listed, ShouldEqual, 10)
			So(stats.GaugeReported, ShouldEqual, 10)
		})
	})

	Convey("Given an unhealthy service", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := Run(context.Background(), &Config{BaseURL: srv.URL, Count: 1, Workers: 1, Timeout: time.Second})
		So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
	})
}

func TestGenerateParticipants(t *testing.T) {
	Convey("Generated participants are unique and spaced in time", t, func() {
		now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		ps := generateParticipants(&Config{Count: 12}, now)

		So(ps, ShouldHaveLength, 12)
		emails := map[string]bool{}
		for i, p := range ps {
			So(emails[p.Email], ShouldBeFalse)
			emails[p.Email] = true
			So(p.EventName, ShouldEqual, defaultEvents[i%len(defaultEvents)])
			So(p.RegistrationDate.Before(now), ShouldBeTrue)
			if i > 0 {
				So(p.RegistrationDate.After(ps[i-1].RegistrationDate), ShouldBeTrue)
			}
		}
	})

	Convey("A fixed event name is used for every participant", t, func() {
		ps := generateParticipants(&Config{Count: 3, EventName: "Conf"}, time.Now())
		for _, p := range ps {
			So(p.EventName, ShouldEqual, "Conf")
		}
	})
}

func TestCheckOrdering(t *testing.T) {
	Convey("Ordering", t, func() {
		t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		older := Participant{ID: "a", RegistrationDate: t0}
		newer := Participant{ID: "b", RegistrationDate: t0.Add(time.Minute)}

		So(checkOrdering(nil), ShouldBeNil)
		So(checkOrdering([]Participant{newer, older}), ShouldBeNil)
		So(checkOrdering([]Participant{older, older}), ShouldBeNil)
		So(errors.Is(checkOrdering([]Participant{older, newer}), ErrOrdering), ShouldBeTrue)
	})
}

func TestParseGauge(t *testing.T) {
	Convey("Parsing the participant gauge", t, func() {
		exposition := []byte(`# HELP participants_total Total number of registered participants
# TYPE participants_total gauge
participants_total 42
participants_total_other 7
`)
		v, err := parseGauge(exposition, gaugeName)
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 42)

		_, err = parseGauge([]byte("http_requests_total 3\n"), gaugeName)
		So(err, ShouldEqual, ErrGaugeMissing)

		_, err = parseGauge([]byte("participants_total NaNish\n"), gaugeName)
		So(err, ShouldNotBeNil)
	})
}

func TestShowHelp(t *testing.T) {
	Convey("Help lists every flag", t, func() {
		var buf bytes.Buffer
		ShowHelp(&buf)
		for _, flag := range []string{"-url", "-count", "-workers", "-timeout", "-event", "-verbose", "-help"} {
			So(buf.String(), ShouldContainSubstring, flag)
		}
	})
}
