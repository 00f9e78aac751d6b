package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "EVENTREG_"
	envConfigFile = envPrefix + "CONFIG"
	dotEnvFile    = ".env"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if EVENTREG_CONFIG is set
//  3. env (prefix EVENTREG_), after loading an optional .env file
func Load(_ context.Context) (*Config, error) {
	// .env never overrides variables that are already set.
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, dotEnvFile, err)
	}

	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// EVENTREG_DATABASE_URL -> database_url; underscores are kept to match
	// the flat koanf tags on the struct.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "config" {
			return "", nil
		}
		if key == "cors_allowed_origins" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "" && c.Port == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DatabaseURL) == "":
		return fmt.Errorf("%w: database_url is required (set %sDATABASE_URL)", ErrInvalidConfig, envPrefix)
	case c.ParticipantGaugeRefreshMS <= 0:
		return fmt.Errorf("%w: participant_gauge_refresh_ms must be positive", ErrInvalidConfig)
	case c.NotifyQueueSize <= 0:
		return fmt.Errorf("%w: notify_queue_size must be positive", ErrInvalidConfig)
	case c.NotifyWorkerCount <= 0:
		return fmt.Errorf("%w: notify_worker_count must be positive", ErrInvalidConfig)
	}
	if c.Port != "" {
		if p, err := strconv.Atoi(c.Port); err != nil || p < 0 || p > 65535 {
			return fmt.Errorf("%w: port %q is not a valid port number", ErrInvalidConfig, c.Port)
		}
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
