package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/internal/bot/repository"
	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/mocks"
	"golang-stock-watchlist/pkg/apperror"
	"golang-stock-watchlist/pkg/common"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type pipelineFixture struct {
	repo    *mocks.MockWatchlistRepository
	sender  *mocks.MockSender
	general *fakeGeneralNews
	lock    repository.RunLockRepository
	runs    *fakeReportRuns
}

func newPipeline(t *testing.T, chatID int64) (ScheduledReportPipeline, *pipelineFixture) {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &pipelineFixture{
		repo:    mocks.NewMockWatchlistRepository(ctrl),
		sender:  mocks.NewMockSender(ctrl),
		general: &fakeGeneralNews{items: newsItems("Reuters", "h1", "h2", "h3", "h4", "h5", "h6")},
		lock:    repository.NewLocalRunLockRepository(),
		runs:    &fakeReportRuns{},
	}
	cfg := testConfig()
	cfg.Telegram.ChatID = chatID

	log := logger.NewNop()
	quotes := &fakeQuoteProvider{known: map[string]float64{"AAPL": 150, "MSFT": 400}}
	watchlist := NewWatchlistService(f.repo, quotes, log)
	orchestrator := NewFetchOrchestrator(quotes, &fakeNewsProvider{}, 2, log)
	composer := telegram.NewReportComposer(100, 120)

	return NewScheduledReportPipeline(cfg, watchlist, orchestrator, f.general, composer, f.sender, f.lock, f.runs, log), f
}

func watchlistEntries(symbols ...string) []entity.WatchlistEntry {
	entries := make([]entity.WatchlistEntry, 0, len(symbols))
	for _, s := range symbols {
		entries = append(entries, entity.WatchlistEntry{OwnerID: "42", Symbol: s})
	}
	return entries
}

func TestScheduledReportWithoutRecipient(t *testing.T) {
	t.Parallel()

	pipeline, f := newPipeline(t, 0)

	outcome := pipeline.RunOnce(context.Background())

	assert.Equal(t, dto.RunStatusNoRecipient, outcome.Status)
	assert.Zero(t, outcome.Messages)
	assert.Zero(t, f.general.calls.Load())
	assert.Empty(t, f.runs.recorded())
	assert.Equal(t, StateIdle, pipeline.State())
}

func TestScheduledReportSendsQuotesThenNews(t *testing.T) {
	t.Parallel()

	// Arrange
	pipeline, f := newPipeline(t, 42)
	f.repo.EXPECT().List(gomock.Any(), "42").Return(watchlistEntries("AAPL", "FAKE"), nil)

	var texts []string
	gomock.InOrder(
		f.sender.EXPECT().SendText(gomock.Any(), int64(42), gomock.Any(), telegram.SendOptions{}).
			DoAndReturn(func(_ context.Context, _ int64, text string, _ telegram.SendOptions) error {
				texts = append(texts, text)
				return nil
			}),
		f.sender.EXPECT().SendText(gomock.Any(), int64(42), gomock.Any(), telegram.SendOptions{DisableWebPagePreview: true}).
			DoAndReturn(func(_ context.Context, _ int64, text string, _ telegram.SendOptions) error {
				texts = append(texts, text)
				return nil
			}),
	)

	// Act
	outcome := pipeline.RunOnce(context.Background())

	// Assert
	assert.Equal(t, dto.RunStatusCompleted, outcome.Status)
	assert.NotEmpty(t, outcome.RunID)
	assert.Equal(t, 2, outcome.Symbols)
	assert.Equal(t, 2, outcome.Messages)
	require.Len(t, texts, 2)
	assert.True(t, strings.HasPrefix(texts[0], "🌅 *Good morning! Watchlist Report*"))
	assert.Contains(t, texts[0], "AAPL Corp")
	assert.NotContains(t, texts[0], "FAKE")
	assert.True(t, strings.HasPrefix(texts[1], "📰 *Top Finance News Today*\n\n"))
	assert.Contains(t, texts[1], "*5.*")
	assert.NotContains(t, texts[1], "*6.*")
	assert.Equal(t, StateIdle, pipeline.State())

	runs := f.runs.recorded()
	require.Len(t, runs, 1)
	assert.Equal(t, outcome.RunID, runs[0].RunID)
	assert.Equal(t, TriggerManual, runs[0].Trigger)
	assert.Equal(t, int64(42), runs[0].ChatID)
	assert.Equal(t, dto.RunStatusCompleted, runs[0].Status)
	assert.True(t, runs[0].QuotesSent)
	assert.True(t, runs[0].NewsSent)
}

func TestScheduledReportNewsPhaseIsIndependent(t *testing.T) {
	t.Parallel()

	pipeline, f := newPipeline(t, 42)
	f.repo.EXPECT().List(gomock.Any(), "42").Return(watchlistEntries("AAPL"), nil)
	gomock.InOrder(
		f.sender.EXPECT().SendText(gomock.Any(), int64(42), gomock.Any(), telegram.SendOptions{}).
			Return(errors.New("telegram unavailable")),
		f.sender.EXPECT().SendText(gomock.Any(), int64(42), gomock.Any(), telegram.SendOptions{DisableWebPagePreview: true}).
			Return(nil),
	)

	outcome := pipeline.RunOnce(context.Background())

	assert.Equal(t, dto.RunStatusPartial, outcome.Status)
	assert.False(t, outcome.QuotesSent)
	assert.True(t, outcome.NewsSent)
	assert.Equal(t, 1, outcome.Messages)
	assert.Equal(t, "telegram unavailable", outcome.Error)
}

func TestScheduledReportWithoutHeadlines(t *testing.T) {
	t.Parallel()

	pipeline, f := newPipeline(t, 42)
	f.general.items = nil
	f.repo.EXPECT().List(gomock.Any(), "42").Return(watchlistEntries("MSFT"), nil)
	f.sender.EXPECT().SendText(gomock.Any(), int64(42), gomock.Any(), telegram.SendOptions{}).Return(nil)

	outcome := pipeline.RunOnce(context.Background())

	assert.Equal(t, dto.RunStatusCompleted, outcome.Status)
	assert.Equal(t, 1, outcome.Messages)
	assert.False(t, outcome.NewsSent)
}

func TestScheduledReportEmptyWatchlist(t *testing.T) {
	t.Parallel()

	pipeline, f := newPipeline(t, 42)
	f.repo.EXPECT().List(gomock.Any(), "42").Return(nil, nil)

	outcome := pipeline.RunOnce(context.Background())

	assert.Equal(t, dto.RunStatusEmpty, outcome.Status)
	assert.Zero(t, outcome.Messages)
	assert.Zero(t, f.general.calls.Load())
}

func TestScheduledReportStorageFailure(t *testing.T) {
	t.Parallel()

	pipeline, f := newPipeline(t, 42)
	f.repo.EXPECT().List(gomock.Any(), "42").Return(nil, apperror.Storage("watchlist.List", errors.New("locked")))

	outcome := pipeline.RunOnce(context.Background())

	assert.Equal(t, dto.RunStatusFailed, outcome.Status)
	assert.NotEmpty(t, outcome.Error)
	assert.Equal(t, StateIdle, pipeline.State())
}

func TestScheduledReportSkipsWhenLockHeld(t *testing.T) {
	t.Parallel()

	pipeline, f := newPipeline(t, 42)
	acquired, err := f.lock.Acquire(context.Background(), common.RedisKeyScheduledReportLock, "other-replica", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	outcome := pipeline.RunOnce(context.Background())

	assert.Equal(t, dto.RunStatusOverlap, outcome.Status)
	assert.Zero(t, outcome.Messages)
	require.Len(t, f.runs.recorded(), 1)
	assert.Equal(t, dto.RunStatusOverlap, f.runs.recorded()[0].Status)
}

func TestScheduledReportSkipsOverlappingRun(t *testing.T) {
	t.Parallel()

	pipeline, f := newPipeline(t, 42)
	f.general.items = nil
	f.repo.EXPECT().List(gomock.Any(), "42").Return(watchlistEntries("AAPL"), nil)

	started := make(chan struct{})
	release := make(chan struct{})
	f.sender.EXPECT().SendText(gomock.Any(), int64(42), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, int64, string, telegram.SendOptions) error {
			close(started)
			<-release
			return nil
		})

	done := make(chan dto.RunOutcome, 1)
	go func() { done <- pipeline.RunOnce(context.Background()) }()
	<-started

	assert.Equal(t, StateRunning, pipeline.State())
	second := pipeline.RunOnce(context.Background())
	assert.Equal(t, dto.RunStatusOverlap, second.Status)

	close(release)
	first := <-done
	assert.Equal(t, dto.RunStatusCompleted, first.Status)
	assert.Equal(t, StateIdle, pipeline.State())
}

func TestScheduledReportReleasesLock(t *testing.T) {
	t.Parallel()

	pipeline, f := newPipeline(t, 42)
	f.repo.EXPECT().List(gomock.Any(), "42").Return(nil, nil).Times(2)

	assert.Equal(t, dto.RunStatusEmpty, pipeline.RunOnce(context.Background()).Status)
	assert.Equal(t, dto.RunStatusEmpty, pipeline.RunOnce(context.Background()).Status)
}

func TestScheduledReportStartRegistersTrigger(t *testing.T) {
	t.Parallel()

	pipeline, _ := newPipeline(t, 42)

	require.NoError(t, pipeline.Start(context.Background()))
	pipeline.Stop()
	assert.Equal(t, StateIdle, pipeline.State())
}

func TestScheduledReportHistoryFailureDoesNotFailRun(t *testing.T) {
	t.Parallel()

	pipeline, f := newPipeline(t, 42)
	f.runs.err = apperror.Storage("reportRun.Create", errors.New("disk full"))
	f.repo.EXPECT().List(gomock.Any(), "42").Return(nil, nil)

	outcome := pipeline.RunOnce(context.Background())

	assert.Equal(t, dto.RunStatusEmpty, outcome.Status)
	assert.Empty(t, outcome.Error)
}
