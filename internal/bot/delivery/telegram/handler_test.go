package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang-stock-watchlist/internal/bot/config"
	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/internal/bot/service"
	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/mocks"
	"golang-stock-watchlist/pkg/apperror"
	"golang-stock-watchlist/pkg/common"
	"golang-stock-watchlist/pkg/logger"
	tg "golang-stock-watchlist/pkg/telegram"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const chatID int64 = 42

type stubWatchlist struct {
	entries []entity.WatchlistEntry
	err     error
	added   []string
	removed []string
}

func (s *stubWatchlist) List(context.Context, string) ([]entity.WatchlistEntry, error) {
	return s.entries, s.err
}

func (s *stubWatchlist) Symbols(context.Context, string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	symbols := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		symbols = append(symbols, e.Symbol)
	}
	return symbols, nil
}

func (s *stubWatchlist) Add(_ context.Context, _ string, symbols []string) ([]dto.AddOutcome, error) {
	if s.err != nil {
		return nil, s.err
	}
	outcomes := make([]dto.AddOutcome, 0, len(symbols))
	for _, symbol := range symbols {
		s.added = append(s.added, symbol)
		outcomes = append(outcomes, dto.AddOutcome{Symbol: symbol, Quote: &dto.Quote{
			Symbol:      symbol,
			DisplayName: symbol + " Corp",
			Price:       decimal.NewFromInt(100),
			Currency:    "USD",
		}})
	}
	return outcomes, nil
}

func (s *stubWatchlist) Remove(_ context.Context, _ string, symbols []string) ([]dto.RemoveOutcome, error) {
	s.removed = append(s.removed, symbols...)
	outcomes := make([]dto.RemoveOutcome, 0, len(symbols))
	for _, symbol := range symbols {
		outcomes = append(outcomes, dto.RemoveOutcome{Symbol: symbol, Removed: true})
	}
	return outcomes, s.err
}

func (s *stubWatchlist) Upsert(context.Context, string, string, string) error { return s.err }

func (s *stubWatchlist) Contains(_ context.Context, _ string, symbol string) (bool, error) {
	for _, e := range s.entries {
		if e.Symbol == symbol {
			return true, nil
		}
	}
	return false, s.err
}

func (s *stubWatchlist) Owners(context.Context) ([]string, error) { return nil, s.err }

type stubReports struct {
	report service.FullReport
}

func (s *stubReports) WatchlistSummary(context.Context, string) (string, bool, error) {
	return "summary", false, nil
}

func (s *stubReports) FullReport(context.Context, string) (service.FullReport, bool, error) {
	return s.report, false, nil
}

func (s *stubReports) QuoteDetail(_ context.Context, symbol string) (dto.Quote, string, bool) {
	if symbol == "FAKE" {
		return dto.Quote{}, "", false
	}
	return dto.Quote{Symbol: symbol}, "card " + symbol, true
}

func (s *stubReports) TickerNews(_ context.Context, symbol string) (string, bool) {
	return "ticker news " + symbol, symbol != "FAKE"
}

func (s *stubReports) SymbolNews(_ context.Context, symbol string) (string, bool) {
	return "symbol news " + symbol, true
}

func (s *stubReports) GeneralNews(context.Context) (string, bool) {
	return "", false
}

type stubAnswerer struct {
	answered []string
}

func (s *stubAnswerer) AnswerCallback(id string) error {
	s.answered = append(s.answered, id)
	return nil
}

type handlerFixture struct {
	handler   *Handler
	sender    *mocks.MockSender
	paced     *mocks.MockSender
	watchlist *stubWatchlist
	reports   *stubReports
	answerer  *stubAnswerer
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &handlerFixture{
		sender:    mocks.NewMockSender(ctrl),
		paced:     mocks.NewMockSender(ctrl),
		watchlist: &stubWatchlist{},
		reports:   &stubReports{},
		answerer:  &stubAnswerer{},
	}
	cfg := &config.Config{Scheduler: config.Scheduler{Hour: 8, Minute: 0, TimeZone: "Europe/Berlin"}}
	f.handler = NewHandler(cfg, f.watchlist, f.reports, tg.NewReportComposer(100, 120), f.sender, f.paced, f.answerer, logger.NewNop())
	return f
}

func (f *handlerFixture) expectReply(text string, opts tg.SendOptions) *gomock.Call {
	return f.sender.EXPECT().SendText(gomock.Any(), chatID, text, opts).Return(nil)
}

func TestHandlerUsageHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		want    string
	}{
		{"add", usageAdd},
		{"remove", usageRemove},
		{"quote", usageQuote},
		{"ticker_news", usageTickerNews},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()
			f := newHandlerFixture(t)
			f.expectReply(tt.want, tg.SendOptions{})

			f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, Command: tt.command})

			assert.Empty(t, f.watchlist.added)
			assert.Empty(t, f.watchlist.removed)
		})
	}
}

func TestHandlerStartAndUnknown(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	f.expectReply(startText, tg.SendOptions{})
	f.expectReply(unknownCommand, tg.SendOptions{})

	f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, Command: "start"})
	f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, Command: "dance"})
}

func TestHandlerEmptyWatchlistOffersHelp(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	f.expectReply(emptyWatchlist, tg.SendOptions{
		Buttons: [][]tg.Button{{{Label: "➕ Add stock", Action: common.CallbackHelpAdd}}},
	})

	f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, Command: "watchlist"})
}

func TestHandlerAdd(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	var reply string
	f.sender.EXPECT().SendText(gomock.Any(), chatID, gomock.Any(), tg.SendOptions{}).
		DoAndReturn(func(_ context.Context, _ int64, text string, _ tg.SendOptions) error {
			reply = text
			return nil
		})

	f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, Command: "add", Arguments: []string{"AAPL", "MSFT"}})

	assert.Equal(t, []string{"AAPL", "MSFT"}, f.watchlist.added)
	assert.True(t, strings.HasPrefix(reply, "📋 *Watchlist Update*"))
	assert.Contains(t, reply, "✅ *AAPL Corp* (`AAPL`) added")
}

func TestHandlerStorageErrorIsReported(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	f.watchlist.err = apperror.Storage("watchlist.List", errors.New("database is locked"))
	var reply string
	f.sender.EXPECT().SendText(gomock.Any(), chatID, gomock.Any(), tg.SendOptions{}).
		DoAndReturn(func(_ context.Context, _ int64, text string, _ tg.SendOptions) error {
			reply = text
			return nil
		})

	f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, Command: "watchlist"})

	assert.True(t, strings.HasPrefix(reply, "⚠️ "))
	assert.Contains(t, reply, "database is locked")
}

func TestHandlerQuoteButtons(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	f.watchlist.entries = []entity.WatchlistEntry{{OwnerID: "42", Symbol: "AAPL"}}
	gomock.InOrder(
		f.expectReply("⏳ Loading quote for `AAPL`...", tg.SendOptions{}),
		f.expectReply("card AAPL", tg.SendOptions{Buttons: [][]tg.Button{{
			{Label: "➖ Remove from watchlist", Action: common.CallbackRemovePrefix + "AAPL"},
			{Label: "📰 News", Action: common.CallbackNewsPrefix + "AAPL"},
		}}}),
		f.expectReply("⏳ Loading quote for `MSFT`...", tg.SendOptions{}),
		f.expectReply("card MSFT", tg.SendOptions{Buttons: [][]tg.Button{{
			{Label: "➕ Add to watchlist", Action: common.CallbackAddPrefix + "MSFT"},
			{Label: "📰 News", Action: common.CallbackNewsPrefix + "MSFT"},
		}}}),
		f.expectReply("⏳ Loading quote for `FAKE`...", tg.SendOptions{}),
		f.expectReply("❌ `FAKE` not found.", tg.SendOptions{}),
	)

	f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, Command: "quote", Arguments: []string{"aapl"}})
	f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, Command: "quote", Arguments: []string{"msft"}})
	f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, Command: "quote", Arguments: []string{"fake"}})
}

func TestHandlerReportUsesPacedSender(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	f.watchlist.entries = []entity.WatchlistEntry{{Symbol: "AAPL"}, {Symbol: "MSFT"}}
	f.reports.report = service.FullReport{Quotes: "quotes", News: []string{"news AAPL", "news MSFT"}}

	gomock.InOrder(
		f.expectReply("⏳ Building report for 2 stocks...", tg.SendOptions{}),
		f.expectReply("quotes", tg.SendOptions{}),
	)
	gomock.InOrder(
		f.paced.EXPECT().SendText(gomock.Any(), chatID, "news AAPL", tg.SendOptions{DisableWebPagePreview: true}).Return(nil),
		f.paced.EXPECT().SendText(gomock.Any(), chatID, "news MSFT", tg.SendOptions{DisableWebPagePreview: true}).Return(nil),
	)

	f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, Command: "report"})
}

func TestHandlerEmptyReport(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	f.expectReply(emptyReport, tg.SendOptions{})

	f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, Command: "report"})
}

func TestHandlerNewsUnavailable(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	gomock.InOrder(
		f.expectReply("⏳ Loading latest news...", tg.SendOptions{}),
		f.expectReply(noNews, tg.SendOptions{}),
	)

	f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, Command: "news"})
}

func TestHandlerScheduleShowsChatID(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	var reply string
	f.sender.EXPECT().SendText(gomock.Any(), chatID, gomock.Any(), tg.SendOptions{}).
		DoAndReturn(func(_ context.Context, _ int64, text string, _ tg.SendOptions) error {
			reply = text
			return nil
		})

	f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, Command: "schedule"})

	assert.Contains(t, reply, "*08:00* (Europe/Berlin)")
	assert.Contains(t, reply, "`CHAT_ID=42`")
}

func TestHandlerCallbacks(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	gomock.InOrder(
		f.expectReply(helpAdd, tg.SendOptions{}),
		f.expectReply("✅ *TSLA Corp* added to watchlist!", tg.SendOptions{}),
		f.expectReply("✅ `TSLA` removed from watchlist.", tg.SendOptions{}),
		f.expectReply("symbol news TSLA", tg.SendOptions{DisableWebPagePreview: true}),
	)

	for i, data := range []string{
		common.CallbackHelpAdd,
		common.CallbackAddPrefix + "TSLA",
		common.CallbackRemovePrefix + "TSLA",
		common.CallbackNewsPrefix + "TSLA",
		"bogus",
	} {
		f.handler.Handle(context.Background(), tg.Update{ChatID: chatID, CallbackID: string(rune('a' + i)), Callback: data})
	}

	require.Len(t, f.answerer.answered, 5)
	assert.Equal(t, []string{"TSLA"}, f.watchlist.added)
	assert.Equal(t, []string{"TSLA"}, f.watchlist.removed)
}

func TestHandlerRunDrainsUpdates(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	done := make(chan struct{})
	f.sender.EXPECT().SendText(gomock.Any(), chatID, unknownCommand, tg.SendOptions{}).
		DoAndReturn(func(context.Context, int64, string, tg.SendOptions) error {
			close(done)
			return nil
		})

	updates := make(chan tg.Update, 1)
	updates <- tg.Update{ChatID: chatID, Command: "nope"}
	close(updates)

	f.handler.Run(context.Background(), updates)
	<-done
}
