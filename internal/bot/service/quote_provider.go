package service

import (
	"context"
	"time"

	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/internal/bot/repository"
	"golang-stock-watchlist/pkg/apperror"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/utils"

	"github.com/patrickmn/go-cache"
)

// QuoteProvider fetches a quote for one symbol. A false result means the quote
// is not available, whatever the cause.
type QuoteProvider interface {
	Fetch(ctx context.Context, symbol string) (dto.Quote, bool)
}

type quoteProvider struct {
	repo    repository.YahooFinanceRepository
	cache   *cache.Cache
	timeout time.Duration
	log     *logger.Logger
}

// NewQuoteProvider creates a QuoteProvider. A non-positive ttl disables caching.
func NewQuoteProvider(repo repository.YahooFinanceRepository, ttl, cleanupInterval, timeout time.Duration, log *logger.Logger) QuoteProvider {
	p := &quoteProvider{
		repo:    repo,
		timeout: timeout,
		log:     log,
	}
	if ttl > 0 {
		p.cache = cache.New(ttl, cleanupInterval)
	}
	return p
}

func (p *quoteProvider) Fetch(ctx context.Context, symbol string) (dto.Quote, bool) {
	symbol = utils.NormalizeSymbol(symbol)
	if symbol == "" {
		return dto.Quote{}, false
	}
	if p.cache != nil {
		if cached, found := p.cache.Get(symbol); found {
			return cached.(dto.Quote), true
		}
	}

	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	quote, err := p.repo.GetQuote(callCtx, symbol)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			p.log.DebugContext(ctx, "Quote not found", logger.StringField("symbol", symbol), logger.ErrorField(err))
		} else {
			p.log.WarnContext(ctx, "Failed to fetch quote", logger.StringField("symbol", symbol), logger.ErrorField(err))
		}
		return dto.Quote{}, false
	}

	if p.cache != nil {
		p.cache.SetDefault(symbol, quote)
	}
	return quote, true
}
