package service

import (
	"context"
	"strings"
	"testing"

	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/mocks"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newReportService(t *testing.T, general []dto.NewsItem) (ReportService, *mocks.MockWatchlistRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockWatchlistRepository(ctrl)

	log := logger.NewNop()
	quotes := &fakeQuoteProvider{known: map[string]float64{"AAPL": 150, "MSFT": 400}}
	news := &fakeNewsProvider{items: map[string][]dto.NewsItem{
		"AAPL": newsItems("Yahoo", "a1", "a2", "a3", "a4"),
	}}
	watchlist := NewWatchlistService(repo, quotes, log)
	orchestrator := NewFetchOrchestrator(quotes, news, 4, log)
	composer := telegram.NewReportComposer(100, 120)

	return NewReportService(testConfig(), watchlist, orchestrator, quotes, news, &fakeGeneralNews{items: general}, composer, log), repo
}

func TestReportServiceWatchlistSummary(t *testing.T) {
	t.Parallel()

	svc, repo := newReportService(t, nil)
	repo.EXPECT().List(gomock.Any(), "42").Return([]entity.WatchlistEntry{{OwnerID: "42", Symbol: "AAPL"}}, nil)
	repo.EXPECT().List(gomock.Any(), "7").Return(nil, nil)

	text, empty, err := svc.WatchlistSummary(context.Background(), "42")
	require.NoError(t, err)
	assert.False(t, empty)
	assert.Contains(t, text, "*AAPL Corp* (`AAPL`)")

	_, empty, err = svc.WatchlistSummary(context.Background(), "7")
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestReportServiceFullReport(t *testing.T) {
	t.Parallel()

	svc, repo := newReportService(t, nil)
	repo.EXPECT().List(gomock.Any(), "42").Return([]entity.WatchlistEntry{
		{OwnerID: "42", Symbol: "AAPL", DisplayName: "Apple Inc."},
		{OwnerID: "42", Symbol: "MSFT", DisplayName: "Microsoft"},
	}, nil)

	report, empty, err := svc.FullReport(context.Background(), "42")

	require.NoError(t, err)
	assert.False(t, empty)
	assert.True(t, strings.HasPrefix(report.Quotes, "📊 *Watchlist Report*"))
	require.Len(t, report.News, 1)
	assert.True(t, strings.HasPrefix(report.News[0], "📰 *Apple Inc. – News*"))
	assert.Contains(t, report.News[0], "*3.*")
	assert.NotContains(t, report.News[0], "*4.*")
}

func TestReportServiceQuoteDetail(t *testing.T) {
	t.Parallel()

	svc, _ := newReportService(t, nil)

	quote, text, ok := svc.QuoteDetail(context.Background(), "aapl")
	require.True(t, ok)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Contains(t, text, "`$150.00`")

	_, _, ok = svc.QuoteDetail(context.Background(), "FAKE")
	assert.False(t, ok)
}

func TestReportServiceTickerNews(t *testing.T) {
	t.Parallel()

	svc, _ := newReportService(t, nil)

	text, ok := svc.TickerNews(context.Background(), "aapl")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "📈 *AAPL Corp (AAPL) – News*"))

	_, ok = svc.TickerNews(context.Background(), "MSFT")
	assert.False(t, ok)
}

func TestReportServiceNews(t *testing.T) {
	t.Parallel()

	svc, _ := newReportService(t, newsItems("Reuters", "g1", "g2"))

	text, ok := svc.SymbolNews(context.Background(), "AAPL")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "📰 *AAPL – News*"))

	text, ok = svc.GeneralNews(context.Background())
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "📰 *Top Finance News*\n"))
	assert.Contains(t, text, "📡 _Reuters_")

	empty, _ := newReportService(t, nil)
	_, ok = empty.GeneralNews(context.Background())
	assert.False(t, ok)
}
