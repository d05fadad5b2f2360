package config

import (
	"encoding/json"
	"os"
	"strconv"

	"ransomsim/internal/constants"
	"ransomsim/internal/models"
)

var (
	ErrMissingDBPath      = models.ConfigError{Message: "missing database path"}
	ErrInvalidDelayWindow = models.ConfigError{Message: "reply delay window must satisfy 0 <= min <= max"}
)

func LoadConfig(path string) (*models.Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(c *models.Config) error {
	if c.Database.Path == "" {
		return ErrMissingDBPath
	}

	// Delay bounds: zero is a valid (instant) lower bound, negative is not.
	// Unset values take the defaults before the window check.
	chat := &c.Chat
	if chat.ReplyDelayMinSec == 0 && chat.ReplyDelayMaxSec == 0 {
		chat.ReplyDelayMinSec = constants.DefaultReplyDelayMinSec
		chat.ReplyDelayMaxSec = constants.DefaultReplyDelayMaxSec
	}
	if chat.ReplyDelayMinSec < 0 || chat.ReplyDelayMaxSec < 0 || chat.ReplyDelayMinSec > chat.ReplyDelayMaxSec {
		return ErrInvalidDelayWindow
	}
	if chat.ResponderWorkers <= 0 {
		chat.ResponderWorkers = constants.DefaultResponderWorkers
	}
	if chat.ResponderQueue <= 0 {
		chat.ResponderQueue = constants.DefaultResponderQueue
	}

	if c.RetentionDays <= 0 {
		c.RetentionDays = constants.DefaultRetentionDays
	}
	if c.Server.Port <= 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = constants.DefaultServerReadTimeout
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = constants.DefaultServerWriteTimeout
	}
	if c.Server.IdleTimeoutSec <= 0 {
		c.Server.IdleTimeoutSec = constants.DefaultServerIdleTimeout
	}
	if c.Server.CleanupIntervalHours <= 0 {
		c.Server.CleanupIntervalHours = constants.DefaultCleanupSchedulerIntervalHrs
	}

	if c.Retry.InitialBackoffMs <= 0 {
		c.Retry.InitialBackoffMs = constants.DefaultRetryBackoffMs
	}
	if c.Retry.MaxBackoffMs <= 0 {
		c.Retry.MaxBackoffMs = constants.DefaultMaxBackoffMs
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = constants.DefaultMaxAttempts
	}

	return nil
}

func applyEnvironmentOverrides(c *models.Config) {
	if path := os.Getenv("RANSOMSIM_DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if port := os.Getenv("PORT"); port != "" {
		if v, err := strconv.Atoi(port); err == nil {
			c.Server.Port = v
		}
	}
	if min := os.Getenv("CHAT_REPLY_DELAY_MIN"); min != "" {
		if v, err := strconv.Atoi(min); err == nil {
			c.Chat.ReplyDelayMinSec = v
		}
	}
	if max := os.Getenv("CHAT_REPLY_DELAY_MAX"); max != "" {
		if v, err := strconv.Atoi(max); err == nil {
			c.Chat.ReplyDelayMaxSec = v
		}
	}
}
