package service

import (
	"context"
	"time"

	"golang-stock-watchlist/internal/bot/config"
	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/telegram"
	"golang-stock-watchlist/pkg/utils"
)

// FullReport is the output of /report: one quotes message followed by one
// news message per symbol that has news.
type FullReport struct {
	Quotes string
	News   []string
}

// ReportService builds the texts of the on-demand reports.
type ReportService interface {
	WatchlistSummary(ctx context.Context, ownerID string) (text string, empty bool, err error)
	FullReport(ctx context.Context, ownerID string) (FullReport, bool, error)
	QuoteDetail(ctx context.Context, symbol string) (dto.Quote, string, bool)
	TickerNews(ctx context.Context, symbol string) (string, bool)
	SymbolNews(ctx context.Context, symbol string) (string, bool)
	GeneralNews(ctx context.Context) (string, bool)
}

type reportService struct {
	cfg          *config.Config
	watchlist    WatchlistService
	orchestrator FetchOrchestrator
	quotes       QuoteProvider
	news         SymbolNewsProvider
	general      GeneralNewsAggregator
	composer     *telegram.ReportComposer
	log          *logger.Logger
	now          func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(
	cfg *config.Config,
	watchlist WatchlistService,
	orchestrator FetchOrchestrator,
	quotes QuoteProvider,
	news SymbolNewsProvider,
	general GeneralNewsAggregator,
	composer *telegram.ReportComposer,
	log *logger.Logger,
) ReportService {
	loc := cfg.Location()
	return &reportService{
		cfg:          cfg,
		watchlist:    watchlist,
		orchestrator: orchestrator,
		quotes:       quotes,
		news:         news,
		general:      general,
		composer:     composer,
		log:          log,
		now:          func() time.Time { return utils.TimeNowIn(loc) },
	}
}

func (s *reportService) WatchlistSummary(ctx context.Context, ownerID string) (string, bool, error) {
	symbols, err := s.watchlist.Symbols(ctx, ownerID)
	if err != nil {
		return "", false, err
	}
	if len(symbols) == 0 {
		return "", true, nil
	}
	results := s.orchestrator.Fetch(ctx, symbols, dto.FetchOptions{})
	return s.composer.FormatWatchlistSummary(results, s.now()), false, nil
}

func (s *reportService) FullReport(ctx context.Context, ownerID string) (FullReport, bool, error) {
	entries, err := s.watchlist.List(ctx, ownerID)
	if err != nil {
		return FullReport{}, false, err
	}
	if len(entries) == 0 {
		return FullReport{}, true, nil
	}

	symbols := make([]string, 0, len(entries))
	for _, e := range entries {
		symbols = append(symbols, e.Symbol)
	}
	results := s.orchestrator.Fetch(ctx, symbols, dto.FetchOptions{
		IncludeNews: true,
		NewsLimit:   s.cfg.Report.ReportNewsLimit,
	})

	report := FullReport{Quotes: s.composer.FormatReportQuotes(results, s.now())}
	for i, r := range results {
		if len(r.News) == 0 {
			continue
		}
		report.News = append(report.News, s.composer.FormatSymbolNews(entries[i].Label(), r.News, s.cfg.Report.ReportNewsLimit))
	}
	return report, false, nil
}

func (s *reportService) QuoteDetail(ctx context.Context, symbol string) (dto.Quote, string, bool) {
	quote, ok := s.quotes.Fetch(ctx, symbol)
	if !ok {
		return dto.Quote{}, "", false
	}
	return quote, s.composer.FormatQuoteDetail(quote, s.now()), true
}

func (s *reportService) TickerNews(ctx context.Context, symbol string) (string, bool) {
	symbol = utils.NormalizeSymbol(symbol)
	results := s.orchestrator.Fetch(ctx, []string{symbol}, dto.FetchOptions{
		IncludeNews: true,
		NewsLimit:   s.cfg.Report.TickerNewsLimit,
	})
	if len(results) == 0 || len(results[0].News) == 0 {
		return "", false
	}
	r := results[0]
	return s.composer.FormatTickerNews(symbol, r.Quote, r.News, s.cfg.Report.TickerNewsLimit, s.now()), true
}

func (s *reportService) SymbolNews(ctx context.Context, symbol string) (string, bool) {
	symbol = utils.NormalizeSymbol(symbol)
	items := s.news.Fetch(ctx, symbol, s.cfg.Report.CallbackNewsLimit)
	if len(items) == 0 {
		return "", false
	}
	return s.composer.FormatSymbolNews(symbol, items, s.cfg.Report.CallbackNewsLimit), true
}

func (s *reportService) GeneralNews(ctx context.Context) (string, bool) {
	items := s.general.Fetch(ctx, s.cfg.Report.GeneralNewsLimit)
	if len(items) == 0 {
		return "", false
	}
	return s.composer.FormatHeadlines("Top Finance News", items, s.now()), true
}
