package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang-stock-watchlist/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("CHAT_ID", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := Load(writeConfig(t, "app:\n  name: test-bot\n"))
	require.NoError(t, err)

	assert.Equal(t, "test-bot", cfg.App.Name)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 8, cfg.Scheduler.Hour)
	assert.Equal(t, "Europe/Berlin", cfg.Scheduler.TimeZone)
	assert.Equal(t, 500*time.Millisecond, cfg.Report.SendInterval)
	assert.Equal(t, 8, cfg.Report.GeneralNewsLimit)
	assert.Equal(t, 5, cfg.Report.ScheduledNewsLimit)
	assert.Equal(t, DefaultFeedSources, cfg.Feeds.Sources)
	assert.NotEmpty(t, cfg.Feeds.UserAgent)
	assert.False(t, cfg.HasRecipient())
}

func TestValidateRequiresBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	cfg, err := Load(writeConfig(t, "telegram:\n  bot_token: \"\"\n"))
	require.NoError(t, err)

	err = cfg.Validate()

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConfiguration))
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHAT_ID", "987654")
	t.Setenv("SCHEDULER_HOUR", "7")
	t.Setenv("FEEDS_USER_AGENT", "feed-bot/2.0")

	cfg, err := Load(writeConfig(t, "scheduler:\n  hour: 9\n  minute: 30\n"))
	require.NoError(t, err)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, int64(987654), cfg.Telegram.ChatID)
	assert.Equal(t, 7, cfg.Scheduler.Hour)
	assert.Equal(t, 30, cfg.Scheduler.Minute)
	assert.Equal(t, "feed-bot/2.0", cfg.Feeds.UserAgent)
	assert.True(t, cfg.HasRecipient())
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
}

func TestValidateRejectsInvalidSettings(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			Telegram:     Telegram{BotToken: "token"},
			Scheduler:    Scheduler{Hour: 8, TimeZone: "UTC"},
			Fetch:        Fetch{MaxConcurrent: 4},
			YahooFinance: YahooFinance{MaxRequestPerMinute: 60},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad time zone", func(c *Config) { c.Scheduler.TimeZone = "Mars/Olympus" }},
		{"hour out of range", func(c *Config) { c.Scheduler.Hour = 24 }},
		{"minute out of range", func(c *Config) { c.Scheduler.Minute = -1 }},
		{"no concurrency", func(c *Config) { c.Fetch.MaxConcurrent = 0 }},
		{"no request budget", func(c *Config) { c.YahooFinance.MaxRequestPerMinute = 0 }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			cfg.Database.Driver = "sqlite"
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindConfiguration))
		})
	}
}
