package app

import (
	"fmt"

	"golang-stock-watchlist/internal/bot/config"
	"golang-stock-watchlist/internal/bot/repository"
	"golang-stock-watchlist/internal/bot/service"
	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/postgres"
	"golang-stock-watchlist/pkg/redis"
	"golang-stock-watchlist/pkg/sqlite"
	"golang-stock-watchlist/pkg/telegram"
)

// NewLogger builds the process logger from configuration.
func NewLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(cfg.Logger.Level, cfg.Logger.Encoding, logger.WithFile(logger.FileConfig{
		Path:       cfg.Logger.FilePath,
		MaxSizeMB:  cfg.Logger.FileMaxSizeMB,
		MaxBackups: cfg.Logger.FileMaxBackups,
		MaxAgeDays: cfg.Logger.FileMaxAgeDays,
	}))
}

// OpenDatabase connects to the configured database and applies auto migration when enabled.
func OpenDatabase(cfg *config.Config) (*postgres.DB, error) {
	var (
		db  *postgres.DB
		err error
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgres.NewDB(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			TimeZone:        cfg.Database.TimeZone,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			LogLevel:        cfg.Database.LogLevel,
		})
	case "sqlite":
		db, err = sqlite.NewDB(sqlite.Config{Path: cfg.Database.Path, LogLevel: cfg.Database.LogLevel})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := db.DB.AutoMigrate(&entity.WatchlistEntry{}, &entity.ReportRun{}); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return db, nil
}

// Services groups the components shared by every entry point.
type Services struct {
	Watchlist    service.WatchlistService
	Quotes       service.QuoteProvider
	SymbolNews   service.SymbolNewsProvider
	GeneralNews  service.GeneralNewsAggregator
	Orchestrator service.FetchOrchestrator
	Reports      service.ReportService
	History      service.ReportHistoryService
	ReportRuns   repository.ReportRunRepository
	Composer     *telegram.ReportComposer
}

// NewServices wires repositories and services on top of an open database.
func NewServices(cfg *config.Config, db *postgres.DB, log *logger.Logger) *Services {
	watchlistRepo := repository.NewWatchlistRepository(db.DB)
	reportRunRepo := repository.NewReportRunRepository(db.DB)
	yahooRepo := repository.NewYahooFinanceRepository(cfg, log)
	feedRepo := repository.NewFeedRepository(cfg, log)

	quotes := service.NewQuoteProvider(yahooRepo, cfg.Cache.QuoteTTL, cfg.Cache.CleanupInterval, cfg.Fetch.ProviderTimeout, log)
	symbolNews := service.NewSymbolNewsProvider(yahooRepo, cfg.Fetch.ProviderTimeout, log)
	generalNews := service.NewGeneralNewsAggregator(feedRepo, cfg.Feeds.Sources, cfg.Feeds.PerSourceLimit, cfg.Feeds.Timeout, log)
	orchestrator := service.NewFetchOrchestrator(quotes, symbolNews, cfg.Fetch.MaxConcurrent, log)
	watchlist := service.NewWatchlistService(watchlistRepo, quotes, log)
	composer := telegram.NewReportComposer(cfg.Report.HeadlineMaxLength, cfg.Report.TickerTitleLength)
	reports := service.NewReportService(cfg, watchlist, orchestrator, quotes, symbolNews, generalNews, composer, log)

	return &Services{
		Watchlist:    watchlist,
		Quotes:       quotes,
		SymbolNews:   symbolNews,
		GeneralNews:  generalNews,
		Orchestrator: orchestrator,
		Reports:      reports,
		History:      service.NewReportHistoryService(reportRunRepo, log),
		ReportRuns:   reportRunRepo,
		Composer:     composer,
	}
}

// NewRunLock returns a Redis lock when Redis is enabled and an in-process lock otherwise.
// The returned close function is never nil.
func NewRunLock(cfg *config.Config, log *logger.Logger) (repository.RunLockRepository, func(), error) {
	if !cfg.Redis.Enabled {
		return repository.NewLocalRunLockRepository(), func() {}, nil
	}
	client, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info("Redis run lock enabled", logger.StringField("host", cfg.Redis.Host))
	return repository.NewRedisRunLockRepository(client), func() { _ = client.Close() }, nil
}
