package service

import (
	"context"
	"time"

	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/internal/bot/repository"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/utils"
)

// SymbolNewsProvider fetches recent news for one symbol. It never fails;
// an upstream error yields an empty list.
type SymbolNewsProvider interface {
	Fetch(ctx context.Context, symbol string, limit int) []dto.NewsItem
}

type symbolNewsProvider struct {
	repo    repository.YahooFinanceRepository
	timeout time.Duration
	log     *logger.Logger
}

// NewSymbolNewsProvider creates a SymbolNewsProvider.
func NewSymbolNewsProvider(repo repository.YahooFinanceRepository, timeout time.Duration, log *logger.Logger) SymbolNewsProvider {
	return &symbolNewsProvider{repo: repo, timeout: timeout, log: log}
}

func (p *symbolNewsProvider) Fetch(ctx context.Context, symbol string, limit int) []dto.NewsItem {
	symbol = utils.NormalizeSymbol(symbol)
	if symbol == "" || limit <= 0 {
		return []dto.NewsItem{}
	}

	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	items, err := p.repo.GetSymbolNews(callCtx, symbol, limit)
	if err != nil {
		p.log.WarnContext(ctx, "Failed to fetch symbol news", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return []dto.NewsItem{}
	}

	valid := make([]dto.NewsItem, 0, len(items))
	for _, item := range items {
		if item.Title == "" {
			continue
		}
		valid = append(valid, item)
		if len(valid) == limit {
			break
		}
	}
	return valid
}
