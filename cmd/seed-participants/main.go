package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/eventreg/internal/seeder"
)

// Default configuration constants.
const (
	defaultCount   = 100
	defaultWorkers = 2 // multiplier for runtime.NumCPU()
	defaultTimeout = 10 * time.Second
	defaultRunTime = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:3000", "Base URL of the service")
		count   = flag.Int("count", defaultCount, "Number of participants to register")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		event   = flag.String("event", "", "Event name for every participant (default: rotate through sample events)")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seeder.ShowHelp(os.Stdout)
		return
	}

	if err := seeder.SetupLogging(os.Stdout, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTime)
	defer cancel()

	cfg := &seeder.Config{
		BaseURL:   *baseURL,
		Count:     *count,
		Workers:   *workers,
		Timeout:   *timeout,
		EventName: *event,
		Verbose:   *verbose,
	}

	if _, err := seeder.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
