package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang-stock-watchlist/internal/bot/config"
	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/internal/entity"

	"github.com/shopspring/decimal"
)

type fakeQuoteProvider struct {
	known    map[string]float64
	delay    func(symbol string) time.Duration
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeQuoteProvider) Fetch(ctx context.Context, symbol string) (dto.Quote, bool) {
	f.calls.Add(1)
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if current <= seen || f.maxSeen.CompareAndSwap(seen, current) {
			break
		}
	}
	if f.delay != nil {
		select {
		case <-time.After(f.delay(symbol)):
		case <-ctx.Done():
			return dto.Quote{}, false
		}
	}

	price, ok := f.known[symbol]
	if f.known == nil {
		price, ok = 100, true
	}
	if !ok {
		return dto.Quote{}, false
	}
	return dto.Quote{
		Symbol:        symbol,
		DisplayName:   symbol + " Corp",
		Price:         decimal.NewFromFloat(price),
		PreviousClose: decimal.NewNullDecimal(decimal.NewFromFloat(price - 1)),
		Currency:      "USD",
		Sector:        dto.TextPlaceholder,
	}, true
}

type fakeNewsProvider struct {
	items map[string][]dto.NewsItem
}

func (f *fakeNewsProvider) Fetch(_ context.Context, symbol string, limit int) []dto.NewsItem {
	items := f.items[symbol]
	if len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		return []dto.NewsItem{}
	}
	return items
}

type fakeFeedRepository struct {
	mu      sync.Mutex
	items   map[string][]dto.NewsItem
	failing map[string]error
	limits  []int
}

func (f *fakeFeedRepository) GetFeedItems(_ context.Context, source config.FeedSource, limit int) ([]dto.NewsItem, error) {
	f.mu.Lock()
	f.limits = append(f.limits, limit)
	f.mu.Unlock()
	if err := f.failing[source.Name]; err != nil {
		return nil, err
	}
	items := f.items[source.Name]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

type fakeGeneralNews struct {
	items []dto.NewsItem
	calls atomic.Int32
}

func (f *fakeGeneralNews) Fetch(_ context.Context, limit int) []dto.NewsItem {
	f.calls.Add(1)
	if len(f.items) > limit {
		return f.items[:limit]
	}
	return f.items
}

type fakeReportRuns struct {
	mu   sync.Mutex
	runs []entity.ReportRun
	err  error
}

func (f *fakeReportRuns) Create(_ context.Context, run *entity.ReportRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeReportRuns) FindByID(context.Context, string) (*entity.ReportRun, error) {
	return nil, nil
}

func (f *fakeReportRuns) FindRecent(context.Context, int) ([]entity.ReportRun, error) {
	return nil, nil
}

func (f *fakeReportRuns) recorded() []entity.ReportRun {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.ReportRun(nil), f.runs...)
}

func newsItems(source string, titles ...string) []dto.NewsItem {
	items := make([]dto.NewsItem, 0, len(titles))
	for _, title := range titles {
		items = append(items, dto.NewsItem{Title: title, URL: "https://example.com/" + title, Source: source})
	}
	return items
}

func testConfig() *config.Config {
	return &config.Config{
		Telegram: config.Telegram{BotToken: "token", ChatID: 42},
		Report: config.Report{
			GeneralNewsLimit:   8,
			ScheduledNewsLimit: 5,
			TickerNewsLimit:    6,
			ReportNewsLimit:    3,
			CallbackNewsLimit:  5,
			HeadlineMaxLength:  100,
			TickerTitleLength:  120,
		},
		Scheduler: config.Scheduler{Hour: 8, Minute: 0, TimeZone: "UTC", RunTimeout: time.Minute},
		Fetch:     config.Fetch{MaxConcurrent: 4},
	}
}
