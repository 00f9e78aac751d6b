// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and the environment.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"net"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// Port, when set, replaces the port part of Addr.
	Port string `koanf:"port"`

	// DatabaseURL selects the participant store: postgres://... or sqlite://<path>.
	// There is deliberately no default.
	DatabaseURL string `koanf:"database_url"`

	// ParticipantGaugeRefreshMS is the participants_total refresh period.
	ParticipantGaugeRefreshMS int `koanf:"participant_gauge_refresh_ms"`

	// NotifyQueueSize bounds the in-memory notice queue.
	NotifyQueueSize int `koanf:"notify_queue_size"`

	// NotifyWorkerCount sets the number of notification workers.
	NotifyWorkerCount int `koanf:"notify_worker_count"`

	// DiscordBotToken and DiscordChannelID enable Discord notifications when both are set.
	DiscordBotToken  string `koanf:"discord_bot_token"`
	DiscordChannelID string `koanf:"discord_channel_id"`

	// CORSAllowedOrigins lists origins allowed by the CORS middleware.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:                  "info",
		LogFormat:                 "text",
		Addr:                      ":3000",
		ParticipantGaugeRefreshMS: 10_000,
		NotifyQueueSize:           1024,
		NotifyWorkerCount:         2,
		CORSAllowedOrigins:        []string{"*"},
	}
}

// ListenAddr returns Addr with Port applied.
func (c *Config) ListenAddr() string {
	if c.Port == "" {
		return c.Addr
	}
	host, _, err := net.SplitHostPort(c.Addr)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, c.Port)
}

// GaugeRefreshInterval returns the participant gauge refresh period.
func (c *Config) GaugeRefreshInterval() time.Duration {
	return time.Duration(c.ParticipantGaugeRefreshMS) * time.Millisecond
}

// DiscordEnabled reports whether Discord notifications are configured.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordBotToken != "" && c.DiscordChannelID != ""
}
