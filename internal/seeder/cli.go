package seeder

import (
	"fmt"
	"io"

	"github.com/okian/eventreg/pkg/logger"
)

// SetupLogging initializes the logger; verbose enables debug output.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.Init(logger.WithOutput(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the seeding tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Participant Seeding Tool
========================

Registers synthetic participants against a running service, then checks that
the participant list is ordered newest first and that /metrics reports them.

Usage:
  go run ./cmd/seed-participants [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3000")
  -count int
        Number of participants to register (default 100)
  -workers int
        Number of concurrent submitters (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -event string
        Event name for every participant (default: rotate through sample events)
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  go run ./cmd/seed-participants -count 500 -workers 16
  go run ./cmd/seed-participants -url http://localhost:8080 -event "Cloud Computing Bootcamp"
`)
}
