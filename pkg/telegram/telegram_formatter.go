package telegram

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	// MaxMessageLength keeps a margin below Telegram's 4096 character limit.
	MaxMessageLength = 4090

	separator   = "━━━━━━━━━━━━━━━━━━━━"
	notAvail    = "not available"
	placeholder = dto.TextPlaceholder
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CHF": "CHF ",
}

var (
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
	trillion = decimal.NewFromInt(1_000_000_000_000)
)

// ReportComposer renders quotes and news as Telegram Markdown. It performs no I/O
// and every method is a deterministic function of its arguments.
type ReportComposer struct {
	headlineMaxLength int
	tickerTitleLength int
}

// NewReportComposer creates a ReportComposer. headlineMaxLength bounds titles in
// headline lists, tickerTitleLength bounds titles in /ticker_news.
func NewReportComposer(headlineMaxLength, tickerTitleLength int) *ReportComposer {
	return &ReportComposer{
		headlineMaxLength: headlineMaxLength,
		tickerTitleLength: tickerTitleLength,
	}
}

// FormatPrice prefixes the currency symbol and renders two decimals with thousands separators.
func FormatPrice(amount decimal.Decimal, currency string) string {
	sym, ok := currencySymbols[currency]
	if !ok {
		sym = currency + " "
	}
	return sym + groupThousands(amount.StringFixed(2))
}

// FormatChange renders the direction marker, the signed change and the signed
// percentage. The direction follows the values as displayed, rounded to cents.
func FormatChange(q dto.Quote) string {
	change, percent := roundedChange(q)
	arrow, changeText := "🟢 ▲", signed(change)
	if isDown(q) {
		arrow = "🔴 ▼"
		if change.IsZero() {
			changeText = "-" + change.StringFixed(2)
		}
	}
	return fmt.Sprintf("%s %s (%s%%)", arrow, changeText, signed(percent))
}

func roundedChange(q dto.Quote) (decimal.Decimal, decimal.Decimal) {
	return q.Change().Round(2), q.ChangePercent().Round(2)
}

// isDown reports a loss that is still visible after rounding to two decimals.
func isDown(q dto.Quote) bool {
	change, percent := roundedChange(q)
	return change.IsNegative() || (change.IsZero() && percent.IsNegative())
}

func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}

// FormatLargeNumber abbreviates with T, B or M suffixes.
func FormatLargeNumber(n decimal.NullDecimal) string {
	if !n.Valid {
		return placeholder
	}
	abs := n.Decimal.Abs()
	switch {
	case abs.GreaterThanOrEqual(trillion):
		return n.Decimal.Div(trillion).StringFixed(2) + "T"
	case abs.GreaterThanOrEqual(billion):
		return n.Decimal.Div(billion).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(million):
		return n.Decimal.Div(million).StringFixed(2) + "M"
	default:
		return groupThousands(n.Decimal.StringFixed(0))
	}
}

func formatOptionalPrice(n decimal.NullDecimal, currency string) string {
	if !n.Valid {
		return placeholder
	}
	return FormatPrice(n.Decimal, currency)
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// Escape protects user supplied text from Telegram Markdown.
func Escape(s string) string {
	return markdownEscaper.Replace(s)
}

func link(title, url string) string {
	title = strings.NewReplacer("[", "(", "]", ")").Replace(title)
	if url == "" {
		return Escape(title)
	}
	title = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "'").Replace(title)
	return fmt.Sprintf("[%s](%s)", title, strings.ReplaceAll(url, ")", "%29"))
}

func timestamp(now time.Time) string {
	return "_" + utils.PrettyDate(now) + "_"
}

func directionDot(q dto.Quote) string {
	if isDown(q) {
		return "🔴"
	}
	return "🟢"
}

// FormatWatchlistSummary renders one block per result in input order.
func (c *ReportComposer) FormatWatchlistSummary(results []dto.FetchResult, now time.Time) string {
	var b strings.Builder
	b.WriteString("📊 *Your Watchlist*\n")
	b.WriteString(timestamp(now) + "\n\n")
	for _, r := range results {
		if !r.HasQuote() {
			b.WriteString(fmt.Sprintf("*%s* – ❌ %s\n\n", Escape(r.Symbol), notAvail))
			continue
		}
		q := *r.Quote
		b.WriteString(fmt.Sprintf("*%s* (`%s`)\n", Escape(q.Label()), r.Symbol))
		b.WriteString(fmt.Sprintf("💰 %s  %s\n\n", FormatPrice(q.Price, q.Currency), FormatChange(q)))
	}
	b.WriteString(separator + "\n")
	b.WriteString("💡 /report for the detailed report")
	return b.String()
}

// FormatReportQuotes renders the quotes block of /report.
func (c *ReportComposer) FormatReportQuotes(results []dto.FetchResult, now time.Time) string {
	var b strings.Builder
	b.WriteString("📊 *Watchlist Report*\n")
	b.WriteString(timestamp(now) + "\n\n")
	b.WriteString(separator + "\n💹 *QUOTES*\n" + separator + "\n")
	for _, r := range results {
		if !r.HasQuote() {
			b.WriteString(fmt.Sprintf("❓ `%s` – %s\n\n", r.Symbol, notAvail))
			continue
		}
		q := *r.Quote
		b.WriteString(fmt.Sprintf("%s *%s* (%s)\n   %s  %s\n\n",
			directionDot(q), Escape(q.Label()), r.Symbol, FormatPrice(q.Price, q.Currency), FormatChange(q)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatScheduledQuotes renders the greeting and one line per available quote.
func (c *ReportComposer) FormatScheduledQuotes(results []dto.FetchResult, now time.Time) string {
	var b strings.Builder
	b.WriteString("🌅 *Good morning! Watchlist Report*\n")
	b.WriteString("_" + utils.ShortDate(now) + "_\n\n")
	for _, r := range results {
		if !r.HasQuote() {
			continue
		}
		q := *r.Quote
		b.WriteString(fmt.Sprintf("%s *%s*: %s %s\n",
			directionDot(q), Escape(q.Label()), FormatPrice(q.Price, q.Currency), FormatChange(q)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatQuoteDetail renders the /quote card.
func (c *ReportComposer) FormatQuoteDetail(q dto.Quote, now time.Time) string {
	emoji := "📈"
	if isDown(q) {
		emoji = "📉"
	}
	pe := placeholder
	if q.PERatio.Valid {
		pe = q.PERatio.Decimal.StringFixed(1)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s *%s* (`%s`)\n", emoji, Escape(q.Label()), q.Symbol))
	b.WriteString(separator + "\n")
	b.WriteString(fmt.Sprintf("💰 Price:      `%s`\n", FormatPrice(q.Price, q.Currency)))
	b.WriteString(fmt.Sprintf("📊 Change:   %s\n", FormatChange(q)))
	b.WriteString(separator + "\n")
	b.WriteString(fmt.Sprintf("📅 52W High:  `%s`\n", formatOptionalPrice(q.Week52High, q.Currency)))
	b.WriteString(fmt.Sprintf("📅 52W Low:   `%s`\n", formatOptionalPrice(q.Week52Low, q.Currency)))
	b.WriteString(fmt.Sprintf("📦 Mkt Cap:   `%s`\n", FormatLargeNumber(q.MarketCap)))
	b.WriteString(fmt.Sprintf("📉 P/E:       `%s`\n", pe))
	b.WriteString(fmt.Sprintf("📊 Volume:   `%s`\n", FormatLargeNumber(q.Volume)))
	b.WriteString(fmt.Sprintf("🏭 Sector:    `%s`\n", q.Sector))
	b.WriteString(separator + "\n")
	b.WriteString(timestamp(now))
	return b.String()
}

// FormatSymbolNews renders a numbered, linked news block for one symbol.
// At most limit items are shown and titles are cut to the headline budget.
func (c *ReportComposer) FormatSymbolNews(label string, items []dto.NewsItem, limit int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📰 *%s – News*\n\n", Escape(label)))
	for i, item := range capItems(items, limit) {
		b.WriteString(fmt.Sprintf("*%d.* %s\n\n", i+1, link(utils.TruncateRunes(item.Title, c.headlineMaxLength), item.URL)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatTickerNews renders the /ticker_news message. quote may be nil.
func (c *ReportComposer) FormatTickerNews(symbol string, quote *dto.Quote, items []dto.NewsItem, limit int, now time.Time) string {
	name, emoji := symbol, "📉"
	if quote != nil {
		name = quote.Label()
		if !isDown(*quote) {
			emoji = "📈"
		}
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s *%s (%s) – News*\n", emoji, Escape(name), symbol))
	b.WriteString(timestamp(now) + "\n\n")
	for i, item := range capItems(items, limit) {
		b.WriteString(fmt.Sprintf("*%d.* %s\n", i+1, link(utils.TruncateRunes(item.Title, c.tickerTitleLength), item.URL)))
		if item.Source != "" {
			b.WriteString(fmt.Sprintf("   📡 _%s_\n", Escape(item.Source)))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatHeadlines renders a numbered list of general headlines with their sources.
// A zero now omits the timestamp line.
func (c *ReportComposer) FormatHeadlines(title string, items []dto.NewsItem, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📰 *%s*\n", title))
	if !now.IsZero() {
		b.WriteString(timestamp(now) + "\n")
	}
	b.WriteString("\n")
	for i, item := range items {
		b.WriteString(fmt.Sprintf("*%d.* %s\n", i+1, link(utils.TruncateRunes(item.Title, c.headlineMaxLength), item.URL)))
		if item.Source != "" {
			b.WriteString(fmt.Sprintf("   📡 _%s_\n", Escape(item.Source)))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatAddOutcomes renders the result of /add.
func (c *ReportComposer) FormatAddOutcomes(outcomes []dto.AddOutcome) string {
	parts := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Quote == nil {
			parts = append(parts, fmt.Sprintf("❌ `%s` – ticker not found", o.Symbol))
			continue
		}
		q := *o.Quote
		parts = append(parts, fmt.Sprintf("✅ *%s* (`%s`) added\n   %s  %s",
			Escape(q.Label()), o.Symbol, FormatPrice(q.Price, q.Currency), FormatChange(q)))
	}
	return "📋 *Watchlist Update*\n\n" + strings.Join(parts, "\n\n")
}

// FormatRemoveOutcomes renders the result of /remove.
func (c *ReportComposer) FormatRemoveOutcomes(outcomes []dto.RemoveOutcome) string {
	lines := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Removed {
			lines = append(lines, fmt.Sprintf("✅ `%s` removed from watchlist", o.Symbol))
		} else {
			lines = append(lines, fmt.Sprintf("❌ `%s` was not in your watchlist", o.Symbol))
		}
	}
	return strings.Join(lines, "\n")
}

// FormatEntries renders stored entries without quotes, used by the CLI.
func (c *ReportComposer) FormatEntries(entries []entity.WatchlistEntry) string {
	if len(entries) == 0 {
		return "📋 Your watchlist is empty."
	}
	var b strings.Builder
	b.WriteString("📋 *Watchlist*\n\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("• `%s` %s (%s)\n", e.Symbol, Escape(e.Label()), utils.ShortDate(time.Time(e.AddedOn))))
	}
	return strings.TrimRight(b.String(), "\n")
}

func capItems(items []dto.NewsItem, limit int) []dto.NewsItem {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// SplitMessage cuts text into parts of at most maxLen bytes, breaking on blank lines where possible.
func SplitMessage(text string, maxLen int) []string {
	if maxLen <= 0 || len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	for _, block := range strings.SplitAfter(text, "\n\n") {
		if current.Len()+len(block) > maxLen && current.Len() > 0 {
			parts = append(parts, strings.TrimRight(current.String(), "\n"))
			current.Reset()
		}
		for len(block) > maxLen {
			cut := maxLen
			for cut > 0 && !utf8.RuneStart(block[cut]) {
				cut--
			}
			parts = append(parts, block[:cut])
			block = block[cut:]
		}
		current.WriteString(block)
	}
	if current.Len() > 0 {
		parts = append(parts, strings.TrimRight(current.String(), "\n"))
	}
	return parts
}
