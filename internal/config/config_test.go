package config

import (
	"os"
	"path/filepath"
	"testing"

	"ransomsim/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `{"database": {"path": "/tmp/test.db"}}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultReplyDelayMinSec, cfg.Chat.ReplyDelayMinSec)
	assert.Equal(t, constants.DefaultReplyDelayMaxSec, cfg.Chat.ReplyDelayMaxSec)
	assert.Equal(t, constants.DefaultResponderWorkers, cfg.Chat.ResponderWorkers)
	assert.Equal(t, constants.DefaultResponderQueue, cfg.Chat.ResponderQueue)
	assert.Equal(t, constants.DefaultRetentionDays, cfg.RetentionDays)
	assert.Equal(t, constants.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, constants.DefaultMaxAttempts, cfg.Retry.MaxAttempts)
}

func TestLoadConfig_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `{
		"database": {"path": "/tmp/test.db"},
		"chat": {"replyDelayMinSec": 1, "replyDelayMaxSec": 3, "responderWorkers": 2},
		"retentionDays": 7,
		"server": {"port": 9000}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Chat.ReplyDelayMinSec)
	assert.Equal(t, 3, cfg.Chat.ReplyDelayMaxSec)
	assert.Equal(t, 2, cfg.Chat.ResponderWorkers)
	assert.Equal(t, 7, cfg.RetentionDays)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadConfig_MissingDBPath(t *testing.T) {
	path := writeConfig(t, `{}`)

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrMissingDBPath)
}

func TestLoadConfig_InvalidDelayWindow(t *testing.T) {
	cases := []string{
		`{"database": {"path": "x.db"}, "chat": {"replyDelayMinSec": 5, "replyDelayMaxSec": 2}}`,
		`{"database": {"path": "x.db"}, "chat": {"replyDelayMinSec": -1, "replyDelayMaxSec": 2}}`,
	}

	for _, content := range cases {
		_, err := LoadConfig(writeConfig(t, content))
		assert.ErrorIs(t, err, ErrInvalidDelayWindow)
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("RANSOMSIM_DB_PATH", "/override/path.db")
	t.Setenv("CHAT_REPLY_DELAY_MIN", "1")
	t.Setenv("CHAT_REPLY_DELAY_MAX", "4")
	t.Setenv("PORT", "9999")

	path := writeConfig(t, `{
		"database": {"path": "/tmp/test.db"},
		"chat": {"replyDelayMinSec": 2, "replyDelayMaxSec": 10}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/override/path.db", cfg.Database.Path)
	assert.Equal(t, 1, cfg.Chat.ReplyDelayMinSec)
	assert.Equal(t, 4, cfg.Chat.ReplyDelayMaxSec)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadConfig_FileMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{not json`))
	assert.Error(t, err)
}
