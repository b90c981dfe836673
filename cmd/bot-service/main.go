package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-watchlist/internal/bot/app"
	"golang-stock-watchlist/internal/bot/config"
	httpdelivery "golang-stock-watchlist/internal/bot/delivery/http"
	tgdelivery "golang-stock-watchlist/internal/bot/delivery/telegram"
	_ "golang-stock-watchlist/internal/bot/docs"
	"golang-stock-watchlist/internal/bot/service"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the watchlist bot",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load and validate configuration before anything is registered
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()
	undo := zap.ReplaceGlobals(appLogger.Logger)
	defer undo()

	appLogger.Info("Starting Watchlist Bot",
		logger.Field("name", cfg.App.Name),
		logger.Field("version", cfg.App.Version),
		logger.Field("database_driver", cfg.Database.Driver))

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	runLock, closeLock, err := app.NewRunLock(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer closeLock()

	svc := app.NewServices(cfg, db, appLogger)

	tgClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram client", logger.ErrorField(err))
	}
	appLogger.Info("Telegram bot authorized", logger.StringField("username", tgClient.Username()))
	paced := telegram.NewPacedSender(tgClient, cfg.Report.SendInterval)

	pipeline := service.NewScheduledReportPipeline(cfg, svc.Watchlist, svc.Orchestrator, svc.GeneralNews, svc.Composer, paced, runLock, svc.ReportRuns, appLogger)
	if cfg.Scheduler.Enabled {
		if err := pipeline.Start(ctx); err != nil {
			appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
		}
		defer pipeline.Stop()
	}

	handler := tgdelivery.NewHandler(cfg, svc.Watchlist, svc.Reports, svc.Composer, tgClient, paced, tgClient, appLogger)
	go handler.Run(ctx, tgClient.Updates(ctx, cfg.Telegram.PollTimeoutSeconds))

	var e *echo.Echo
	if cfg.API.Enabled {
		e = echo.New()
		e.HideBanner = true
		e.Use(middleware.Recover())

		apiV1 := e.Group("/api/v1")
		httpdelivery.NewWatchlistHandler(svc.Watchlist, appLogger).RegisterRoutes(apiV1.Group("/watchlists"))
		httpdelivery.NewMarketHandler(svc.Quotes, svc.GeneralNews, cfg.Report.GeneralNewsLimit, appLogger).RegisterRoutes(apiV1)
		reportHandler := httpdelivery.NewReportHandler(pipeline, svc.History, appLogger)
		reportHandler.RegisterRoutes(apiV1)
		reportHandler.RegisterHealth(e)
		e.GET("/swagger/*", swagger.WrapHandler)

		go func() {
			addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
			appLogger.Info("HTTP server starting", logger.Field("address", addr))
			if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
				appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
				stop()
			}
		}()
	}

	<-ctx.Done()
	appLogger.Info("Shutting down bot...")

	if e != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
		}
	}

	appLogger.Info("Bot exiting")
}

// @title Stock Watchlist Bot Admin API
// @version 1.0
// @description Administrative API of the stock watchlist and news report bot.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "bot-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing bot-service CLI: %s\n", err)
		os.Exit(1)
	}
}
