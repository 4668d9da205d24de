package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/recordstore/pkg/config"
)

const (
	testBasePrice = 250.0
	testBuckets   = 64
	testMaxLoad   = 4
	testRatio     = 0.25
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "recordstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.InDelta(t, config.DefaultBasePrice, cfg.Catalog.BasePrice, 0)
	assert.Equal(t, config.DefaultInitialBuckets, cfg.Catalog.InitialBuckets)
	assert.Equal(t, config.DefaultMaxLoad, cfg.Catalog.MaxLoad)
	assert.Equal(t, config.LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, config.LogFormatText, cfg.Logging.Format)
	assert.Empty(t, cfg.Observability.OTLPEndpoint)
	assert.Equal(t, config.DefaultShutdownTimeoutSec, cfg.Observability.ShutdownTimeoutSec)
	assert.True(t, cfg.MCP.Enabled)
}

func TestLoadConfig_NoPathSearchesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultInitialBuckets, cfg.Catalog.InitialBuckets)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `catalog:
  base_price: 250
  initial_buckets: 64
  max_load: 4
logging:
  level: debug
  format: json
observability:
  otlp_endpoint: localhost:4317
  otlp_insecure: true
  sample_ratio: 0.25
  environment: staging
mcp:
  enabled: false
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.InDelta(t, testBasePrice, cfg.Catalog.BasePrice, 0)
	assert.Equal(t, testBuckets, cfg.Catalog.InitialBuckets)
	assert.Equal(t, testMaxLoad, cfg.Catalog.MaxLoad)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
	assert.True(t, cfg.Logging.JSON())
	assert.Equal(t, "localhost:4317", cfg.Observability.OTLPEndpoint)
	assert.True(t, cfg.Observability.OTLPInsecure)
	assert.InDelta(t, testRatio, cfg.Observability.SampleRatio, 0)
	assert.Equal(t, "staging", cfg.Observability.Environment)
	assert.False(t, cfg.MCP.Enabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RECORDSTORE_CATALOG_BASE_PRICE", "42")
	t.Setenv("RECORDSTORE_LOGGING_LEVEL", "warn")

	cfg, err := config.LoadConfig(writeConfig(t, "catalog:\n  base_price: 7\n"))
	require.NoError(t, err)

	assert.InDelta(t, 42, cfg.Catalog.BasePrice, 0)
	assert.Equal(t, slog.LevelWarn, cfg.Logging.SlogLevel())
}

func TestLoadConfig_ReportsEveryInvalidField(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `catalog:
  base_price: -1
  initial_buckets: 0
  max_load: -2
logging:
  level: loud
  format: xml
observability:
  sample_ratio: 2
`)

	_, err := config.LoadConfig(path)
	require.Error(t, err)

	for _, want := range []error{
		config.ErrInvalidBasePrice,
		config.ErrInvalidBuckets,
		config.ErrInvalidMaxLoad,
		config.ErrInvalidLogLevel,
		config.ErrInvalidLogFormat,
		config.ErrInvalidSampleRatio,
	} {
		assert.ErrorIs(t, err, want)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "catalog: [unclosed\n"))
	require.ErrorContains(t, err, "failed to read config file")
}

func TestLoggingConfig_SlogLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		config.LogLevelDebug: slog.LevelDebug,
		config.LogLevelInfo:  slog.LevelInfo,
		config.LogLevelWarn:  slog.LevelWarn,
		config.LogLevelError: slog.LevelError,
	}

	for name, want := range tests {
		assert.Equal(t, want, config.LoggingConfig{Level: name}.SlogLevel(), name)
	}
}
