package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load builds the Config from defaults, an optional .env file, and
// MONITOR_* environment variable overrides. The returned Config has NOT
// been validated; the caller should invoke Config.Validate() after Load.
func Load() *Config {
	cfg := Defaults()

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg
}

// applyEnvOverrides reads well-known MONITOR_* environment variables and
// overwrites the corresponding Config fields when a variable is set.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.WSEndpoint, "MONITOR_WS_ENDPOINT")
	setStr(&cfg.RPCEndpoint, "MONITOR_RPC_ENDPOINT")
	setStr(&cfg.ProgramID, "MONITOR_PROGRAM_ID")
	setStr(&cfg.Commitment, "MONITOR_COMMITMENT")

	setStr(&cfg.CSVPath, "MONITOR_CSV_PATH")
	setStr(&cfg.PostgresDSN, "MONITOR_POSTGRES_DSN")

	setDuration(&cfg.FetchTimeout, "MONITOR_FETCH_TIMEOUT")

	setInt(&cfg.MaxRetries, "MONITOR_MAX_RETRIES")
	setFloat64(&cfg.BackoffBase, "MONITOR_BACKOFF_BASE")
	setDuration(&cfg.MaxBackoff, "MONITOR_MAX_BACKOFF")
	setDuration(&cfg.RestartCooldown, "MONITOR_RESTART_COOLDOWN")

	setStr(&cfg.MetricsAddr, "MONITOR_METRICS_ADDR")
}

// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
