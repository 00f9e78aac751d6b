package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/eventreg/pkg/logger"
)

// Run executes a complete seeding run and returns its statistics.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("seeder")

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	log.Info(ctx, "starting participant seeding",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("count", cfg.Count),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Bool("verbose", cfg.Verbose),
	)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, cfg); err != nil {
		return stats, err
	}

	// Step 2: Generate participants
	participants := generateParticipants(cfg, time.Now())
	stats.Generated = len(participants)

	// Step 3: Submit participants concurrently
	created := submitParticipants(ctx, cfg, participants, stats)
	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrSubmission, stats.Failed, stats.Submitted)
	}

	// Step 4: Verify the list order and contents
	if err := verifyList(ctx, cfg, created, stats); err != nil {
		return stats, fmt.Errorf("list verification failed: %w", err)
	}

	// Step 5: Verify the participant gauge
	if err := verifyGauge(ctx, cfg, len(created), stats); err != nil {
		return stats, fmt.Errorf("gauge verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	log.Info(ctx, "seeding completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, cfg *Config) error {
	body, err := newHTTPClient(cfg.Timeout).getBody(ctx, cfg.BaseURL+"/health")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	logger.Get().Named("seeder").Debug(ctx, "service is healthy", logger.String("response", string(body)))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, perSecond float64

	if stats.Submitted > 0 {
		successRate = float64(stats.Successful) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Named("seeder").Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("listed", stats.Listed),
		logger.Float64("participantsTotal", stats.GaugeReported),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("registrationsPerSecond", perSecond),
	)
}
