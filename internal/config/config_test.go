package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P", cfg.ProgramID)
	assert.Equal(t, "processed", cfg.Commitment)
	assert.Equal(t, "token_logs.csv", cfg.CSVPath)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 20, cfg.MaxRetries)
	assert.Equal(t, 3.0, cfg.BackoffBase)
	assert.Equal(t, 30*time.Second, cfg.MaxBackoff)
	assert.Equal(t, 5*time.Second, cfg.RestartCooldown)
	assert.Empty(t, cfg.WSEndpoint, "ws endpoint has no default")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MONITOR_WS_ENDPOINT", "wss://rpc.example/ws")
	t.Setenv("MONITOR_COMMITMENT", "confirmed")
	t.Setenv("MONITOR_MAX_RETRIES", "7")
	t.Setenv("MONITOR_BACKOFF_BASE", "2.5")
	t.Setenv("MONITOR_MAX_BACKOFF", "45s")
	t.Setenv("MONITOR_CSV_PATH", "/tmp/out.csv")

	cfg := Load()

	assert.Equal(t, "wss://rpc.example/ws", cfg.WSEndpoint)
	assert.Equal(t, "confirmed", cfg.Commitment)
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.Equal(t, 2.5, cfg.BackoffBase)
	assert.Equal(t, 45*time.Second, cfg.MaxBackoff)
	assert.Equal(t, "/tmp/out.csv", cfg.CSVPath)
}

func TestLoad_MalformedEnvKeepsDefault(t *testing.T) {
	t.Setenv("MONITOR_WS_ENDPOINT", "wss://rpc.example/ws")
	t.Setenv("MONITOR_MAX_RETRIES", "not-a-number")
	t.Setenv("MONITOR_MAX_BACKOFF", "soon")

	cfg := Load()

	assert.Equal(t, 20, cfg.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.MaxBackoff)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Defaults()
		cfg.WSEndpoint = "wss://rpc.example/ws"
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing ws endpoint", func(t *testing.T) {
		cfg := Defaults()
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MONITOR_WS_ENDPOINT")
	})

	t.Run("http scheme rejected", func(t *testing.T) {
		cfg := valid()
		cfg.WSEndpoint = "https://rpc.example"
		require.Error(t, cfg.Validate())
	})

	t.Run("no sink", func(t *testing.T) {
		cfg := valid()
		cfg.CSVPath = ""
		cfg.PostgresDSN = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("postgres dsn alone is enough", func(t *testing.T) {
		cfg := valid()
		cfg.CSVPath = ""
		cfg.PostgresDSN = "postgres://monitor@localhost/monitor"
		require.NoError(t, cfg.Validate())
	})

	t.Run("backoff base must exceed one", func(t *testing.T) {
		cfg := valid()
		cfg.BackoffBase = 1
		require.Error(t, cfg.Validate())
	})

	t.Run("multiple problems reported together", func(t *testing.T) {
		cfg := Config{}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ws endpoint")
		assert.Contains(t, err.Error(), "fetch timeout")
		assert.Contains(t, err.Error(), "max retries")
	})
}
