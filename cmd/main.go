package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/eventreg/internal/adapters/http/api"
	"github.com/okian/eventreg/internal/adapters/mq/queue"
	"github.com/okian/eventreg/internal/adapters/mq/worker"
	"github.com/okian/eventreg/internal/adapters/notifier"
	"github.com/okian/eventreg/internal/adapters/repository"
	app "github.com/okian/eventreg/internal/app"
	"github.com/okian/eventreg/internal/config"
	"github.com/okian/eventreg/pkg/logger"
	"github.com/okian/eventreg/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Get().Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	if err := configureLogger(ctx, cfg); err != nil {
		os.Stderr.WriteString("failed to configure logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	a := newApplication(ctx, cfg)
	if err := a.start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", srv.Addr),
			logger.String("metrics", "/metrics"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		log.Error(ctx, "HTTP server failed", logger.Error(err))
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	a.shutdown(shutdownCtx)

	log.Info(shutdownCtx, "server stopped")
}

// configureLogger re-initializes the global logger with the configured
// format and level. An invalid level falls back to info.
func configureLogger(ctx context.Context, cfg *config.Config) error {
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// application holds the wired components of the service.
type application struct {
	metrics *metrics.Manager
	store   repository.Store
	queue   *queue.InMemoryQueue
	workers *worker.Pool
	service *app.Service
	handler http.Handler
	log     logger.Logger
}

// newApplication wires every component from cfg. A store that cannot be
// opened is logged and replaced by one that fails every call, so the
// process keeps serving health, metrics and the client.
func newApplication(ctx context.Context, cfg *config.Config) *application {
	a := &application{
		metrics: metrics.NewManager(),
		log:     logger.Get(),
	}

	store, err := repository.Open(ctx, cfg.DatabaseURL, repository.WithMetrics(a.metrics))
	if err != nil {
		a.log.Error(ctx, "database connection error; requests will fail until restart", logger.Error(err))
		store = repository.Unavailable(err)
	} else {
		a.log.Info(ctx, "connected to participant store")
	}
	a.store = store

	a.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(cfg.NotifyQueueSize),
		queue.WithMetrics(a.metrics),
	)
	a.workers = worker.NewPool(cfg.NotifyWorkerCount, a.queue, newNotifier(ctx, cfg, a.log),
		worker.WithMetrics(a.metrics),
	)

	a.service = app.New(store,
		app.WithLogger(a.log.Named("service")),
		app.WithMetrics(a.metrics),
		app.WithGaugeRefreshInterval(cfg.GaugeRefreshInterval()),
		app.WithNotices(a.queue),
	)

	a.handler = api.NewServer(a.service,
		api.WithMetrics(a.metrics),
		api.WithLogger(a.log.Named("api")),
		api.WithCORSOrigins(cfg.CORSAllowedOrigins),
	).Routes()

	return a
}

// newNotifier posts to Discord when configured and logs notices otherwise.
func newNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) worker.Notifier {
	if cfg.DiscordEnabled() {
		d, err := notifier.NewDiscord(cfg.DiscordBotToken, cfg.DiscordChannelID)
		if err == nil {
			log.Info(ctx, "discord notifications enabled", logger.String("channel", cfg.DiscordChannelID))
			return d
		}
		log.Warn(ctx, "discord notifier unavailable; logging notices instead", logger.Error(err))
	}
	return notifier.NewLog(log.Named("notifier"))
}

func (a *application) start(ctx context.Context) error {
	// Workers outlive the signal context so shutdown can drain the queue.
	a.workers.Start(context.WithoutCancel(ctx))
	return a.service.Start(ctx)
}

// shutdown stops the gauge refresher, drains pending notices and closes the store.
func (a *application) shutdown(ctx context.Context) {
	a.service.Stop()
	if err := a.workers.Shutdown(ctx); err != nil {
		a.log.Warn(ctx, "notification workers did not drain", logger.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.log.Error(ctx, "store close failed", logger.Error(err))
	}
}
