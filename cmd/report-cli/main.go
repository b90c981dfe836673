package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang-stock-watchlist/internal/bot/app"
	"golang-stock-watchlist/internal/bot/config"
	"golang-stock-watchlist/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

// withServices loads configuration and wires the services for a one-shot command.
// The bot token is not required here.
func withServices(run func(ctx context.Context, svc *app.Services) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	appLogger, err := app.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()
	undo := zap.ReplaceGlobals(appLogger.Logger)
	defer undo()

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	appLogger.Debug("Report CLI ready", logger.StringField("database_driver", cfg.Database.Driver))
	return run(ctx, app.NewServices(cfg, db, appLogger))
}

var quoteCmd = &cobra.Command{
	Use:   "quote SYMBOL",
	Short: "Print the quote card for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, svc *app.Services) error {
			_, text, ok := svc.Reports.QuoteDetail(ctx, args[0])
			if !ok {
				return fmt.Errorf("%s not found", strings.ToUpper(args[0]))
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		})
	},
}

var newsCmd = &cobra.Command{
	Use:   "news [SYMBOL]",
	Short: "Print general headlines, or news for one symbol",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, svc *app.Services) error {
			var (
				text string
				ok   bool
			)
			if len(args) == 1 {
				text, ok = svc.Reports.TickerNews(ctx, args[0])
			} else {
				text, ok = svc.Reports.GeneralNews(ctx)
			}
			if !ok {
				return fmt.Errorf("no news available")
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		})
	},
}

var watchlistCmd = &cobra.Command{
	Use:   "watchlist OWNER_ID",
	Short: "Print the watchlist report of an owner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, svc *app.Services) error {
			report, empty, err := svc.Reports.FullReport(ctx, args[0])
			if err != nil {
				return err
			}
			if empty {
				entries, err := svc.Watchlist.List(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), svc.Composer.FormatEntries(entries))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Quotes)
			for _, text := range report.News {
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		})
	},
}

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Print the most recent scheduled report runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, svc *app.Services) error {
			runs, err := svc.History.Recent(ctx, runsLimit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No report runs recorded")
				return nil
			}
			for _, run := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-7s %-21s messages=%d symbols=%d %dms %s\n",
					run.StartedAt.Format(time.RFC3339), run.Trigger, run.Status,
					run.Messages, run.Symbols, run.DurationMs, run.Error)
			}
			return nil
		})
	},
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "report-cli",
		Short:        "Renders the bot's reports on the terminal",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "Number of runs to print")

	rootCmd.AddCommand(quoteCmd, newsCmd, watchlistCmd, runsCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Printf("report-cli: %v", err)
		os.Exit(1)
	}
}
