package config

// Catalog defaults.
const (
	DefaultBasePrice      = 100.0
	DefaultInitialBuckets = 16
	DefaultMaxLoad        = 2
)

// Logging defaults.
const (
	DefaultLogLevel  = LogLevelInfo
	DefaultLogFormat = LogFormatText
)

// Observability defaults.
const (
	DefaultSampleRatio        = 0.0
	DefaultShutdownTimeoutSec = 5
)

// Log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)
