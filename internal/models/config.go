package models

// Config holds the application configuration
type Config struct {
	Server        ServerConfig   `json:"server"`
	Database      DatabaseConfig `json:"database"`
	Chat          ChatConfig     `json:"chat"`
	Retry         RetryConfig    `json:"retry"`
	Tracing       TracingConfig  `json:"tracing"`
	LogLevel      string         `json:"log_level"`
	RetentionDays int            `json:"retentionDays"`
}

// ServerConfig holds HTTP server related configurations
type ServerConfig struct {
	Port                 int `json:"port"`
	ReadTimeoutSec       int `json:"readTimeoutSec"`
	WriteTimeoutSec      int `json:"writeTimeoutSec"`
	IdleTimeoutSec       int `json:"idleTimeoutSec"`
	CleanupIntervalHours int `json:"cleanupIntervalHours"`
}

// DatabaseConfig holds database related configurations
type DatabaseConfig struct {
	Path string `json:"path"`
}

// ChatConfig holds the auto-responder configuration. Reply delay bounds
// are in whole seconds; both must be non-negative with min <= max.
type ChatConfig struct {
	ReplyDelayMinSec int `json:"replyDelayMinSec"`
	ReplyDelayMaxSec int `json:"replyDelayMaxSec"`
	ResponderWorkers int `json:"responderWorkers"`
	ResponderQueue   int `json:"responderQueue"`
}

// RetryConfig holds retry related configurations
type RetryConfig struct {
	InitialBackoffMs int `json:"initialBackoffMs"`
	MaxBackoffMs     int `json:"maxBackoffMs"`
	MaxAttempts      int `json:"maxAttempts"`
}

// TracingConfig holds OpenTelemetry related configurations
type TracingConfig struct {
	Enabled        bool    `json:"enabled"`
	ServiceName    string  `json:"serviceName"`
	ServiceVersion string  `json:"serviceVersion"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlpEndpoint"`
	SampleRate     float64 `json:"sampleRate"`
	UseStdout      bool    `json:"useStdout"`
}

type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
