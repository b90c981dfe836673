package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang-stock-watchlist/internal/bot/config"
	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/pkg/apperror"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"resty.dev/v3"
)

// YahooFinanceRepository reads quotes and per-symbol news from Yahoo Finance.
type YahooFinanceRepository interface {
	GetQuote(ctx context.Context, symbol string) (dto.Quote, error)
	GetSymbolNews(ctx context.Context, symbol string, limit int) ([]dto.NewsItem, error)
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	client         *resty.Client
	requestLimiter *rate.Limiter
	now            func() time.Time
}

// NewYahooFinanceRepository creates a new YahooFinanceRepository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	client := resty.New().
		SetBaseURL(cfg.YahooFinance.BaseURL).
		SetTimeout(cfg.YahooFinance.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.YahooFinance.UserAgent).
		SetRetryCount(cfg.YahooFinance.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryConditions(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			code := r.StatusCode()
			return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
		}).
		AddRetryHooks(func(r *resty.Response, err error) {
			if r == nil || r.Request == nil {
				return
			}
			log.Debug("Retrying Yahoo Finance request",
				zap.String("url", r.Request.URL),
				zap.Int("attempt", r.Request.Attempt),
				zap.Int("status_code", r.StatusCode()),
				zap.Error(err))
		})

	return &yahooFinanceRepository{
		cfg:            cfg,
		log:            log,
		client:         client,
		requestLimiter: requestLimiter,
		now:            time.Now,
	}
}

// GetQuote reads price data from the chart endpoint. Sector, market cap and
// P/E come from quoteSummary when it answers; without them the quote is still returned.
func (r *yahooFinanceRepository) GetQuote(ctx context.Context, symbol string) (dto.Quote, error) {
	const op = "yahoo.GetQuote"
	symbol = utils.NormalizeSymbol(symbol)
	if symbol == "" {
		return dto.Quote{}, apperror.Validation(op, "symbol is required")
	}

	var chart dto.YahooChartResponse
	params := map[string]string{"range": "1d", "interval": "1d"}
	if err := r.get(ctx, op, "/v8/finance/chart/"+url.PathEscape(symbol), params, &chart); err != nil {
		return dto.Quote{}, err
	}
	if len(chart.Chart.Result) == 0 || chart.Chart.Result[0].Meta == nil {
		return dto.Quote{}, apperror.NotFound(op, "unknown symbol "+symbol)
	}
	meta := chart.Chart.Result[0].Meta
	if s := meta.Text("symbol"); s != "" && utils.NormalizeSymbol(s) != symbol {
		return dto.Quote{}, apperror.NotFound(op, "unknown symbol "+symbol)
	}

	quote, ok := dto.MergeYahooFields(r.profile(ctx, symbol), meta).ToQuote(symbol, r.now())
	if !ok {
		return dto.Quote{}, apperror.NotFound(op, "no price for "+symbol)
	}
	return quote, nil
}

// profile returns the quoteSummary fields of symbol, or nil when they are unavailable.
func (r *yahooFinanceRepository) profile(ctx context.Context, symbol string) dto.YahooFields {
	var summary dto.YahooQuoteSummaryResponse
	params := map[string]string{"modules": "assetProfile,summaryDetail,price"}
	if err := r.get(ctx, "yahoo.GetProfile", "/v10/finance/quoteSummary/"+url.PathEscape(symbol), params, &summary); err != nil {
		r.log.DebugContext(ctx, "Quote profile unavailable",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err))
		return nil
	}
	return summary.Fields()
}

func (r *yahooFinanceRepository) GetSymbolNews(ctx context.Context, symbol string, limit int) ([]dto.NewsItem, error) {
	const op = "yahoo.GetSymbolNews"
	symbol = utils.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, apperror.Validation(op, "symbol is required")
	}
	if limit <= 0 {
		return []dto.NewsItem{}, nil
	}

	var response dto.YahooSearchResponse
	params := map[string]string{
		"q":           symbol,
		"quotesCount": "0",
		// the upstream count includes untitled items that are dropped below
		"newsCount": strconv.Itoa(limit * 2),
	}
	if err := r.get(ctx, op, "/v1/finance/search", params, &response); err != nil {
		return nil, err
	}

	items := make([]dto.NewsItem, 0, limit)
	for _, record := range response.News {
		item, ok := record.ToNewsItem()
		if !ok {
			continue
		}
		items = append(items, item)
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (r *yahooFinanceRepository) get(ctx context.Context, op, path string, params map[string]string, result interface{}) error {
	fields := []zap.Field{
		zap.String("path", path),
		zap.Any("params", params),
		zap.Int("max_request_per_minute", r.cfg.YahooFinance.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return apperror.Upstream(op, err)
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(result).
		Get(path)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.WarnContext(ctx, "Failed to send request to Yahoo Finance", fields...)
		return apperror.Upstream(op, err)
	}
	if !resp.IsSuccess() {
		fields = append(fields, zap.Int("status_code", resp.StatusCode()))
		r.log.WarnContext(ctx, "Yahoo Finance returned non-success status", fields...)
		return apperror.ClassifyHTTPStatus(op, resp.StatusCode())
	}
	return nil
}
