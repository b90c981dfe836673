package config

import (
	"fmt"
	"strings"
	"time"

	"golang-stock-watchlist/pkg/apperror"
	"golang-stock-watchlist/pkg/config"
	"golang-stock-watchlist/pkg/utils"
)

// Telegram holds configuration for the Telegram transport.
type Telegram struct {
	BotToken           string `mapstructure:"bot_token"`
	ChatID             int64  `mapstructure:"chat_id"`
	PollTimeoutSeconds int    `mapstructure:"poll_timeout_seconds"`
	Debug              bool   `mapstructure:"debug"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
	RetryCount          int           `mapstructure:"retry_count"`
	UserAgent           string        `mapstructure:"user_agent"`
}

// FeedSource is one named RSS endpoint.
type FeedSource struct {
	Name string `mapstructure:"name" json:"name"`
	URL  string `mapstructure:"url" json:"url"`
}

// Feeds holds the general news feed configuration. Sources are polled in order.
type Feeds struct {
	Sources          []FeedSource  `mapstructure:"sources"`
	PerSourceLimit   int           `mapstructure:"per_source_limit"`
	Timeout          time.Duration `mapstructure:"timeout"`
	SummaryMaxLength int           `mapstructure:"summary_max_length"`
	UserAgent        string        `mapstructure:"user_agent"`
}

// Fetch bounds the orchestrator.
type Fetch struct {
	MaxConcurrent   int           `mapstructure:"max_concurrent"`
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`
}

// Report holds the limits used when composing messages.
type Report struct {
	GeneralNewsLimit   int           `mapstructure:"general_news_limit"`
	ScheduledNewsLimit int           `mapstructure:"scheduled_news_limit"`
	TickerNewsLimit    int           `mapstructure:"ticker_news_limit"`
	ReportNewsLimit    int           `mapstructure:"report_news_limit"`
	CallbackNewsLimit  int           `mapstructure:"callback_news_limit"`
	HeadlineMaxLength  int           `mapstructure:"headline_max_length"`
	TickerTitleLength  int           `mapstructure:"ticker_title_length"`
	SendInterval       time.Duration `mapstructure:"send_interval"`
}

// Scheduler holds the daily report trigger.
type Scheduler struct {
	Enabled    bool          `mapstructure:"enabled"`
	Hour       int           `mapstructure:"hour"`
	Minute     int           `mapstructure:"minute"`
	TimeZone   string        `mapstructure:"time_zone"`
	RunTimeout time.Duration `mapstructure:"run_timeout"`
}

// Cache holds the in-process quote cache settings.
type Cache struct {
	QuoteTTL        time.Duration `mapstructure:"quote_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Config holds the full configuration for the bot service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	Telegram     Telegram        `mapstructure:"telegram"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	Feeds        Feeds           `mapstructure:"feeds"`
	Fetch        Fetch           `mapstructure:"fetch"`
	Report       Report          `mapstructure:"report"`
	Scheduler    Scheduler       `mapstructure:"scheduler"`
	Cache        Cache           `mapstructure:"cache"`
}

// DefaultFeedSources are the general finance feeds polled by /news.
var DefaultFeedSources = []FeedSource{
	{Name: "Yahoo Finance", URL: "https://finance.yahoo.com/news/rssindex"},
	{Name: "Seeking Alpha", URL: "https://seekingalpha.com/market_currents.xml"},
	{Name: "MarketWatch", URL: "https://feeds.content.dowjones.io/public/rss/mw_realtimeheadlines"},
	{Name: "Reuters", URL: "https://feeds.reuters.com/reuters/businessNews"},
}

func defaults() map[string]interface{} {
	sources := make([]map[string]interface{}, 0, len(DefaultFeedSources))
	for _, s := range DefaultFeedSources {
		sources = append(sources, map[string]interface{}{"name": s.Name, "url": s.URL})
	}
	return map[string]interface{}{
		"app.name":                             "stock-watchlist-bot",
		"app.env":                              "development",
		"app.version":                          "1.0.0",
		"logger.level":                         "info",
		"logger.encoding":                      "json",
		"logger.file_path":                     "",
		"logger.file_max_size_mb":              100,
		"logger.file_max_backups":              7,
		"logger.file_max_age_days":             30,
		"database.driver":                      "sqlite",
		"database.path":                        "stocks.db",
		"database.host":                        "localhost",
		"database.port":                        5432,
		"database.user":                        "postgres",
		"database.password":                    "",
		"database.name":                        "stock_watchlist",
		"database.ssl_mode":                    "disable",
		"database.time_zone":                   "UTC",
		"database.max_idle_conns":              5,
		"database.max_open_conns":              10,
		"database.conn_max_lifetime":           "1h",
		"database.log_level":                   "silent",
		"database.auto_migrate":                true,
		"redis.enabled":                        false,
		"redis.host":                           "localhost",
		"redis.port":                           6379,
		"redis.password":                       "",
		"redis.db":                             0,
		"redis.pool_size":                      10,
		"api.enabled":                          true,
		"api.host":                             "",
		"api.port":                             8080,
		"telegram.bot_token":                   "",
		"telegram.chat_id":                     0,
		"telegram.poll_timeout_seconds":        60,
		"telegram.debug":                       false,
		"yahoo_finance.base_url":               "https://query1.finance.yahoo.com",
		"yahoo_finance.max_request_per_minute": 120,
		"yahoo_finance.timeout":                "10s",
		"yahoo_finance.retry_count":            2,
		"yahoo_finance.user_agent":             "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		"feeds.sources":                        sources,
		"feeds.per_source_limit":               3,
		"feeds.timeout":                        "10s",
		"feeds.summary_max_length":             200,
		"feeds.user_agent":                     "golang-stock-watchlist/1.0 (+https://github.com/mmcdole/gofeed)",
		"fetch.max_concurrent":                 4,
		"fetch.provider_timeout":               "10s",
		"report.general_news_limit":            8,
		"report.scheduled_news_limit":          5,
		"report.ticker_news_limit":             6,
		"report.report_news_limit":             3,
		"report.callback_news_limit":           5,
		"report.headline_max_length":           100,
		"report.ticker_title_length":           120,
		"report.send_interval":                 "500ms",
		"scheduler.enabled":                    true,
		"scheduler.hour":                       8,
		"scheduler.minute":                     0,
		"scheduler.time_zone":                  "Europe/Berlin",
		"scheduler.run_timeout":                "5m",
		"cache.quote_ttl":                      "1m",
		"cache.cleanup_interval":               "5m",
	}
}

// Load loads the bot configuration from the given path. It does not validate.
func Load(path string) (*Config, error) {
	var cfg Config
	err := config.Load(path, &cfg,
		config.WithDefaults(defaults()),
		config.WithEnvAliases(map[string][]string{
			"telegram.bot_token": {"TELEGRAM_BOT_TOKEN", "BOT_TOKEN"},
			"telegram.chat_id":   {"TELEGRAM_CHAT_ID", "CHAT_ID"},
		}),
	)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings required before any handler or schedule is registered.
func (c *Config) Validate() error {
	const op = "config.Validate"
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return apperror.Configuration(op, "telegram.bot_token (BOT_TOKEN) is required")
	}
	if _, err := utils.LoadLocation(c.Scheduler.TimeZone); err != nil {
		return apperror.Configuration(op, err.Error())
	}
	if c.Scheduler.Hour < 0 || c.Scheduler.Hour > 23 {
		return apperror.Configuration(op, fmt.Sprintf("scheduler.hour must be 0-23, got %d", c.Scheduler.Hour))
	}
	if c.Scheduler.Minute < 0 || c.Scheduler.Minute > 59 {
		return apperror.Configuration(op, fmt.Sprintf("scheduler.minute must be 0-59, got %d", c.Scheduler.Minute))
	}
	if c.Fetch.MaxConcurrent < 1 {
		return apperror.Configuration(op, "fetch.max_concurrent must be at least 1")
	}
	if c.YahooFinance.MaxRequestPerMinute < 1 {
		return apperror.Configuration(op, "yahoo_finance.max_request_per_minute must be at least 1")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return apperror.Configuration(op, fmt.Sprintf("database.driver must be postgres or sqlite, got %q", c.Database.Driver))
	}
	return nil
}

// Location returns the scheduler time zone. Call after Validate.
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Scheduler.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HasRecipient reports whether a scheduled report recipient is configured.
func (c *Config) HasRecipient() bool {
	return c.Telegram.ChatID != 0
}
