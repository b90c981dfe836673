package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang-stock-watchlist/internal/bot/config"
	"golang-stock-watchlist/internal/bot/service"
	"golang-stock-watchlist/pkg/common"
	"golang-stock-watchlist/pkg/logger"
	tg "golang-stock-watchlist/pkg/telegram"
	"golang-stock-watchlist/pkg/utils"
)

const (
	usageAdd        = "❌ Please provide a ticker:\n`/add AAPL`\n`/add MSFT GOOGL NVDA`"
	usageRemove     = "❌ Please provide a ticker:\n`/remove AAPL`"
	usageQuote      = "❌ Please provide a ticker:\n`/quote AAPL`"
	usageTickerNews = "❌ Please provide a ticker:\n`/ticker_news AAPL`"
	helpAdd         = "➕ Add stocks:\n`/add AAPL`\n`/add MSFT NVDA GOOGL`"
	emptyWatchlist  = "📋 Your watchlist is empty.\n\nAdd stocks with:\n`/add AAPL`"
	emptyReport     = "📋 Your watchlist is empty. Add stocks with `/add AAPL`"
	noNews          = "❌ No news available. Please try again later."
	unknownCommand  = "🤔 Unknown command. Send /help for the list of commands."
)

const startText = "📈 *Stock News Bot* – Welcome!\n\n" +
	"I keep you up to date with stock news and manage your personal watchlist.\n\n" +
	"━━━━━━━━━━━━━━━━━━━━\n" +
	"📋 *Commands*\n" +
	"━━━━━━━━━━━━━━━━━━━━\n" +
	"🔍 /news – Top finance news\n" +
	"📊 /watchlist – Your watchlist\n" +
	"➕ /add `<TICKER>` – Add a stock\n" +
	"➖ /remove `<TICKER>` – Remove a stock\n" +
	"💹 /quote `<TICKER>` – Current quote\n" +
	"📰 /ticker\\_news `<TICKER>` – News for a stock\n" +
	"📋 /report – Watchlist report\n" +
	"⏰ /schedule – Daily report\n\n" +
	"_Example:_ /add AAPL"

// CallbackAnswerer acknowledges inline button presses.
type CallbackAnswerer interface {
	AnswerCallback(callbackID string) error
}

// Handler turns Telegram commands and callbacks into service calls.
type Handler struct {
	cfg       *config.Config
	watchlist service.WatchlistService
	reports   service.ReportService
	composer  *tg.ReportComposer
	sender    tg.Sender
	paced     tg.Sender
	answerer  CallbackAnswerer
	log       *logger.Logger
}

// NewHandler creates a new Handler. paced is used for the per-symbol messages of /report.
func NewHandler(
	cfg *config.Config,
	watchlist service.WatchlistService,
	reports service.ReportService,
	composer *tg.ReportComposer,
	sender tg.Sender,
	paced tg.Sender,
	answerer CallbackAnswerer,
	log *logger.Logger,
) *Handler {
	return &Handler{
		cfg:       cfg,
		watchlist: watchlist,
		reports:   reports,
		composer:  composer,
		sender:    sender,
		paced:     paced,
		answerer:  answerer,
		log:       log,
	}
}

// Run handles updates until the channel is closed. Every update runs on its own goroutine.
func (h *Handler) Run(ctx context.Context, updates <-chan tg.Update) {
	for update := range updates {
		utils.GoSafe(func() {
			h.Handle(ctx, update)
		})
	}
}

// Handle processes one update.
func (h *Handler) Handle(ctx context.Context, update tg.Update) {
	ctx = logger.WithFields(ctx, logger.Field("chat_id", update.ChatID))
	if update.IsCallback() {
		h.handleCallback(ctx, update)
		return
	}

	h.log.DebugContext(ctx, "Handling command",
		logger.StringField("command", update.Command),
		logger.Field("arguments", update.Arguments))

	switch update.Command {
	case "start", "help":
		h.reply(ctx, update.ChatID, startText, tg.SendOptions{})
	case "news":
		h.handleNews(ctx, update)
	case "watchlist":
		h.handleWatchlist(ctx, update)
	case "add":
		h.handleAdd(ctx, update)
	case "remove":
		h.handleRemove(ctx, update)
	case "quote":
		h.handleQuote(ctx, update)
	case "ticker_news":
		h.handleTickerNews(ctx, update)
	case "report":
		h.handleReport(ctx, update)
	case "schedule":
		h.handleSchedule(ctx, update)
	default:
		h.reply(ctx, update.ChatID, unknownCommand, tg.SendOptions{})
	}
}

func ownerID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string, opts tg.SendOptions) {
	if err := h.sender.SendText(ctx, chatID, text, opts); err != nil {
		h.log.ErrorContext(ctx, "Failed to send reply", logger.ErrorField(err))
	}
}

func (h *Handler) replyError(ctx context.Context, chatID int64, err error) {
	h.log.ErrorContext(ctx, "Command failed", logger.ErrorField(err))
	h.reply(ctx, chatID, "⚠️ "+tg.Escape(err.Error()), tg.SendOptions{})
}

func (h *Handler) handleNews(ctx context.Context, update tg.Update) {
	h.reply(ctx, update.ChatID, "⏳ Loading latest news...", tg.SendOptions{})
	text, ok := h.reports.GeneralNews(ctx)
	if !ok {
		h.reply(ctx, update.ChatID, noNews, tg.SendOptions{})
		return
	}
	h.reply(ctx, update.ChatID, text, tg.SendOptions{DisableWebPagePreview: true})
}

func (h *Handler) handleWatchlist(ctx context.Context, update tg.Update) {
	entries, err := h.watchlist.List(ctx, ownerID(update.ChatID))
	if err != nil {
		h.replyError(ctx, update.ChatID, err)
		return
	}
	if len(entries) == 0 {
		h.reply(ctx, update.ChatID, emptyWatchlist, tg.SendOptions{
			Buttons: [][]tg.Button{{{Label: "➕ Add stock", Action: common.CallbackHelpAdd}}},
		})
		return
	}

	h.reply(ctx, update.ChatID, "⏳ Loading quotes...", tg.SendOptions{})
	text, _, err := h.reports.WatchlistSummary(ctx, ownerID(update.ChatID))
	if err != nil {
		h.replyError(ctx, update.ChatID, err)
		return
	}
	h.reply(ctx, update.ChatID, text, tg.SendOptions{})
}

func (h *Handler) handleAdd(ctx context.Context, update tg.Update) {
	if len(update.Arguments) == 0 {
		h.reply(ctx, update.ChatID, usageAdd, tg.SendOptions{})
		return
	}
	outcomes, err := h.watchlist.Add(ctx, ownerID(update.ChatID), update.Arguments)
	if err != nil {
		h.replyError(ctx, update.ChatID, err)
		return
	}
	h.reply(ctx, update.ChatID, h.composer.FormatAddOutcomes(outcomes), tg.SendOptions{})
}

func (h *Handler) handleRemove(ctx context.Context, update tg.Update) {
	if len(update.Arguments) == 0 {
		h.reply(ctx, update.ChatID, usageRemove, tg.SendOptions{})
		return
	}
	outcomes, err := h.watchlist.Remove(ctx, ownerID(update.ChatID), update.Arguments)
	if err != nil {
		h.replyError(ctx, update.ChatID, err)
		return
	}
	h.reply(ctx, update.ChatID, h.composer.FormatRemoveOutcomes(outcomes), tg.SendOptions{})
}

func (h *Handler) handleQuote(ctx context.Context, update tg.Update) {
	if len(update.Arguments) == 0 {
		h.reply(ctx, update.ChatID, usageQuote, tg.SendOptions{})
		return
	}
	symbol := utils.NormalizeSymbol(update.Arguments[0])
	h.reply(ctx, update.ChatID, fmt.Sprintf("⏳ Loading quote for `%s`...", symbol), tg.SendOptions{})

	_, text, ok := h.reports.QuoteDetail(ctx, symbol)
	if !ok {
		h.reply(ctx, update.ChatID, fmt.Sprintf("❌ `%s` not found.", symbol), tg.SendOptions{})
		return
	}

	inWatchlist, err := h.watchlist.Contains(ctx, ownerID(update.ChatID), symbol)
	if err != nil {
		h.log.WarnContext(ctx, "Failed to check watchlist membership", logger.ErrorField(err))
	}
	toggle := tg.Button{Label: "➕ Add to watchlist", Action: common.CallbackAddPrefix + symbol}
	if inWatchlist {
		toggle = tg.Button{Label: "➖ Remove from watchlist", Action: common.CallbackRemovePrefix + symbol}
	}
	h.reply(ctx, update.ChatID, text, tg.SendOptions{
		Buttons: [][]tg.Button{{toggle, {Label: "📰 News", Action: common.CallbackNewsPrefix + symbol}}},
	})
}

func (h *Handler) handleTickerNews(ctx context.Context, update tg.Update) {
	if len(update.Arguments) == 0 {
		h.reply(ctx, update.ChatID, usageTickerNews, tg.SendOptions{})
		return
	}
	symbol := utils.NormalizeSymbol(update.Arguments[0])
	h.reply(ctx, update.ChatID, fmt.Sprintf("⏳ Loading news for `%s`...", symbol), tg.SendOptions{})

	text, ok := h.reports.TickerNews(ctx, symbol)
	if !ok {
		h.reply(ctx, update.ChatID, fmt.Sprintf("❌ No news found for `%s`.", symbol), tg.SendOptions{})
		return
	}
	h.reply(ctx, update.ChatID, text, tg.SendOptions{DisableWebPagePreview: true})
}

func (h *Handler) handleReport(ctx context.Context, update tg.Update) {
	symbols, err := h.watchlist.Symbols(ctx, ownerID(update.ChatID))
	if err != nil {
		h.replyError(ctx, update.ChatID, err)
		return
	}
	if len(symbols) == 0 {
		h.reply(ctx, update.ChatID, emptyReport, tg.SendOptions{})
		return
	}
	h.reply(ctx, update.ChatID, fmt.Sprintf("⏳ Building report for %d stocks...", len(symbols)), tg.SendOptions{})

	report, empty, err := h.reports.FullReport(ctx, ownerID(update.ChatID))
	if err != nil {
		h.replyError(ctx, update.ChatID, err)
		return
	}
	if empty {
		h.reply(ctx, update.ChatID, emptyReport, tg.SendOptions{})
		return
	}
	h.reply(ctx, update.ChatID, report.Quotes, tg.SendOptions{})
	for _, text := range report.News {
		if !utils.ShouldContinue(ctx) {
			return
		}
		if err := h.paced.SendText(ctx, update.ChatID, text, tg.SendOptions{DisableWebPagePreview: true}); err != nil {
			h.log.ErrorContext(ctx, "Failed to send report news", logger.ErrorField(err))
			return
		}
	}
}

func (h *Handler) handleSchedule(ctx context.Context, update tg.Update) {
	text := fmt.Sprintf("⏰ *Daily Reports*\n\n"+
		"Set `CHAT_ID` to your Telegram chat id to receive a watchlist report every day at *%02d:%02d* (%s).\n\n"+
		"💡 *Your chat id:*\n`%d`\n\n"+
		"In your `.env` file:\n`CHAT_ID=%d`",
		h.cfg.Scheduler.Hour, h.cfg.Scheduler.Minute, h.cfg.Scheduler.TimeZone, update.ChatID, update.ChatID)
	h.reply(ctx, update.ChatID, text, tg.SendOptions{})
}

func (h *Handler) handleCallback(ctx context.Context, update tg.Update) {
	if h.answerer != nil {
		if err := h.answerer.AnswerCallback(update.CallbackID); err != nil {
			h.log.WarnContext(ctx, "Failed to answer callback", logger.ErrorField(err))
		}
	}

	data := update.Callback
	switch {
	case data == common.CallbackHelpAdd:
		h.reply(ctx, update.ChatID, helpAdd, tg.SendOptions{})
	case strings.HasPrefix(data, common.CallbackAddPrefix):
		symbol := utils.NormalizeSymbol(strings.TrimPrefix(data, common.CallbackAddPrefix))
		if symbol == "" {
			return
		}
		outcomes, err := h.watchlist.Add(ctx, ownerID(update.ChatID), []string{symbol})
		if err != nil {
			h.replyError(ctx, update.ChatID, err)
			return
		}
		if len(outcomes) == 0 || outcomes[0].Quote == nil {
			h.reply(ctx, update.ChatID, fmt.Sprintf("❌ `%s` – ticker not found", symbol), tg.SendOptions{})
			return
		}
		h.reply(ctx, update.ChatID, fmt.Sprintf("✅ *%s* added to watchlist!", tg.Escape(outcomes[0].Quote.Label())), tg.SendOptions{})
	case strings.HasPrefix(data, common.CallbackRemovePrefix):
		symbol := utils.NormalizeSymbol(strings.TrimPrefix(data, common.CallbackRemovePrefix))
		if symbol == "" {
			return
		}
		if _, err := h.watchlist.Remove(ctx, ownerID(update.ChatID), []string{symbol}); err != nil {
			h.replyError(ctx, update.ChatID, err)
			return
		}
		h.reply(ctx, update.ChatID, fmt.Sprintf("✅ `%s` removed from watchlist.", symbol), tg.SendOptions{})
	case strings.HasPrefix(data, common.CallbackNewsPrefix):
		symbol := utils.NormalizeSymbol(strings.TrimPrefix(data, common.CallbackNewsPrefix))
		if symbol == "" {
			return
		}
		text, ok := h.reports.SymbolNews(ctx, symbol)
		if !ok {
			h.reply(ctx, update.ChatID, fmt.Sprintf("❌ No news found for `%s`.", symbol), tg.SendOptions{})
			return
		}
		h.reply(ctx, update.ChatID, text, tg.SendOptions{DisableWebPagePreview: true})
	default:
		h.log.WarnContext(ctx, "Unknown callback", logger.StringField("data", data))
	}
}
