package service

import (
	"context"
	"sync"

	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/utils"
)

// FetchOrchestrator fetches quotes and news for a batch of symbols.
type FetchOrchestrator interface {
	Fetch(ctx context.Context, symbols []string, opts dto.FetchOptions) []dto.FetchResult
}

type fetchOrchestrator struct {
	quotes        QuoteProvider
	news          SymbolNewsProvider
	maxConcurrent int
	log           *logger.Logger
}

// NewFetchOrchestrator creates a FetchOrchestrator that keeps at most
// maxConcurrent upstream calls in flight.
func NewFetchOrchestrator(quotes QuoteProvider, news SymbolNewsProvider, maxConcurrent int, log *logger.Logger) FetchOrchestrator {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &fetchOrchestrator{
		quotes:        quotes,
		news:          news,
		maxConcurrent: maxConcurrent,
		log:           log,
	}
}

// Fetch returns one result per input symbol, in input order. Quote and news
// calls run concurrently; a failed call leaves its slot absent or empty.
func (o *fetchOrchestrator) Fetch(ctx context.Context, symbols []string, opts dto.FetchOptions) []dto.FetchResult {
	results := make([]dto.FetchResult, len(symbols))
	if len(symbols) == 0 {
		return results
	}

	semaphore := make(chan struct{}, o.maxConcurrent)
	var wg sync.WaitGroup

	dispatch := func(task func()) {
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-semaphore }()
			task()
		})
	}

	for i, symbol := range symbols {
		symbol = utils.NormalizeSymbol(symbol)
		results[i] = dto.FetchResult{Symbol: symbol, News: []dto.NewsItem{}}
		if symbol == "" {
			continue
		}

		dispatch(func() {
			if quote, ok := o.quotes.Fetch(ctx, symbol); ok {
				results[i].Quote = &quote
			}
		})
		if opts.IncludeNews && opts.NewsLimit > 0 {
			dispatch(func() {
				if items := o.news.Fetch(ctx, symbol, opts.NewsLimit); items != nil {
					results[i].News = items
				}
			})
		}
	}
	wg.Wait()

	missing := 0
	for _, r := range results {
		if !r.HasQuote() {
			missing++
		}
	}
	o.log.DebugContext(ctx, "Orchestration run finished",
		logger.IntField("symbols", len(symbols)),
		logger.IntField("quotes_missing", missing),
		logger.Field("include_news", opts.IncludeNews))
	return results
}
