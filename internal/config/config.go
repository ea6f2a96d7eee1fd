// Package config defines the monitor's runtime configuration, populated
// from built-in defaults, an optional .env file, and MONITOR_* environment
// variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"pumpfun-monitor/internal/discovery"
	"pumpfun-monitor/internal/ingestion"
	"pumpfun-monitor/internal/metadata"
)

// Config is the root configuration structure.
type Config struct {
	// WSEndpoint is the Solana WebSocket RPC endpoint (wss://...).
	WSEndpoint string
	// RPCEndpoint is an optional HTTP RPC endpoint used to resolve metadata
	// URIs on chain when an event carries none. Empty disables the fallback.
	RPCEndpoint string
	// ProgramID is the program whose logs the subscription mentions.
	ProgramID string
	// Commitment is the subscription commitment level.
	Commitment string

	// CSVPath is where records are appended when no Postgres DSN is set.
	CSVPath string
	// PostgresDSN selects the Postgres sink when non-empty.
	PostgresDSN string

	// FetchTimeout bounds each metadata HTTP fetch.
	FetchTimeout time.Duration

	// MaxRetries is the reconnect ceiling before the process restarts itself.
	MaxRetries int
	// BackoffBase is the exponential backoff base in seconds.
	BackoffBase float64
	// MaxBackoff caps the delay between reconnect attempts.
	MaxBackoff time.Duration
	// RestartCooldown is how long to wait before re-exec after giving up.
	RestartCooldown time.Duration

	// MetricsAddr is the listen address for /metrics and /health.
	// Empty disables the HTTP endpoint.
	MetricsAddr string
}

// Defaults returns a Config populated with the monitor's default values.
// WSEndpoint has no default and must be provided.
func Defaults() Config {
	return Config{
		ProgramID:       discovery.PumpFun,
		Commitment:      "processed",
		CSVPath:         "token_logs.csv",
		FetchTimeout:    metadata.DefaultFetchTimeout,
		MaxRetries:      ingestion.DefaultMaxRetries,
		BackoffBase:     ingestion.DefaultBackoffBase,
		MaxBackoff:      ingestion.DefaultMaxBackoff,
		RestartCooldown: 5 * time.Second,
		MetricsAddr:     ":9090",
	}
}

// Validate checks the Config for invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if c.WSEndpoint == "" {
		errs = append(errs, "ws endpoint must not be empty (set MONITOR_WS_ENDPOINT)")
	} else if !strings.HasPrefix(c.WSEndpoint, "ws://") && !strings.HasPrefix(c.WSEndpoint, "wss://") {
		errs = append(errs, fmt.Sprintf("ws endpoint must start with ws:// or wss://, got %q", c.WSEndpoint))
	}
	if c.ProgramID == "" {
		errs = append(errs, "program id must not be empty")
	}
	if c.CSVPath == "" && c.PostgresDSN == "" {
		errs = append(errs, "either csv path or postgres dsn must be set")
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, "fetch timeout must be positive")
	}
	if c.MaxRetries < 1 {
		errs = append(errs, "max retries must be >= 1")
	}
	if c.BackoffBase <= 1 {
		errs = append(errs, "backoff base must be > 1")
	}
	if c.MaxBackoff <= 0 {
		errs = append(errs, "max backoff must be positive")
	}
	if c.RestartCooldown < 0 {
		errs = append(errs, "restart cooldown must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
