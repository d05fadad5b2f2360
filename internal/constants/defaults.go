package constants

// Default auto-responder configuration values
const (
	DefaultReplyDelayMinSec = 2
	DefaultReplyDelayMaxSec = 10
	DefaultResponderWorkers = 4
	DefaultResponderQueue   = 256
)

// Default retry configuration values
const (
	DefaultRetryBackoffMs        = 1000
	DefaultMaxBackoffMs          = 60000
	DefaultMaxAttempts           = 5
	DefaultDatabaseRetryAttempts = 3
)

// Default storage configuration values
const (
	DefaultRetentionDays               = 90
	DefaultCleanupSchedulerIntervalHrs = 24
)

// Default server configuration values
const (
	DefaultServerPort          = 8080
	DefaultServerReadTimeout   = 15
	DefaultServerWriteTimeout  = 15
	DefaultServerIdleTimeout   = 60
	DefaultGracefulShutdownSec = 30
	ServerErrorChannelSize     = 1
)

// Limits on inbound chat payloads
const (
	MaxMessageBodyLength    = 4000
	MaxConversationIDLength = 64
)

// Websocket event stream settings
const (
	DefaultEventPollIntervalMs = 1000
)
