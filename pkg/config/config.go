// Package config loads and validates recordstore configuration from a YAML
// file and RECORDSTORE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidBasePrice   = errors.New("catalog base price must be non-negative")
	ErrInvalidBuckets     = errors.New("catalog initial buckets must be positive")
	ErrInvalidMaxLoad     = errors.New("catalog max load must be positive")
	ErrInvalidLogLevel    = errors.New("unknown log level")
	ErrInvalidLogFormat   = errors.New("unknown log format")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

const (
	configName = "recordstore"
	envPrefix  = "RECORDSTORE"
)

// Config holds all recordstore configuration.
type Config struct {
	Catalog       CatalogConfig       `mapstructure:"catalog"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	MCP           MCPConfig           `mapstructure:"mcp"`
}

// CatalogConfig configures the company façade.
type CatalogConfig struct {
	BasePrice      float64 `mapstructure:"base_price"`
	InitialBuckets int     `mapstructure:"initial_buckets"`
	MaxLoad        int     `mapstructure:"max_load"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig configures OTel export.
type ObservabilityConfig struct {
	OTLPEndpoint       string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders        string  `mapstructure:"otlp_headers"`
	OTLPInsecure       bool    `mapstructure:"otlp_insecure"`
	SampleRatio        float64 `mapstructure:"sample_ratio"`
	Environment        string  `mapstructure:"environment"`
	ShutdownTimeoutSec int     `mapstructure:"shutdown_timeout_sec"`
}

// MCPConfig configures the MCP server.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig loads configuration from configPath, or from recordstore.yaml
// in the default search paths when configPath is empty. A missing file in
// the search paths is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/recordstore")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// SlogLevel returns the configured log level. Validated configs always map.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch l.Level {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// JSON reports whether JSON log output is configured.
func (l LoggingConfig) JSON() bool {
	return l.Format == LogFormatJSON
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("catalog.base_price", DefaultBasePrice)
	viperCfg.SetDefault("catalog.initial_buckets", DefaultInitialBuckets)
	viperCfg.SetDefault("catalog.max_load", DefaultMaxLoad)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.otlp_headers", "")
	viperCfg.SetDefault("observability.otlp_insecure", false)
	viperCfg.SetDefault("observability.sample_ratio", DefaultSampleRatio)
	viperCfg.SetDefault("observability.environment", "")
	viperCfg.SetDefault("observability.shutdown_timeout_sec", DefaultShutdownTimeoutSec)

	viperCfg.SetDefault("mcp.enabled", true)
}

// validateConfig reports every invalid field at once.
func validateConfig(config *Config) error {
	var errs []error

	if config.Catalog.BasePrice < 0 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidBasePrice, config.Catalog.BasePrice))
	}

	if config.Catalog.InitialBuckets <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidBuckets, config.Catalog.InitialBuckets))
	}

	if config.Catalog.MaxLoad <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidMaxLoad, config.Catalog.MaxLoad))
	}

	switch config.Logging.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level))
	}

	switch config.Logging.Format {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format))
	}

	if r := config.Observability.SampleRatio; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidSampleRatio, r))
	}

	return errors.Join(errs...)
}
