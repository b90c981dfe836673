package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFields(t *testing.T, raw string) YahooFields {
	t.Helper()
	var f YahooFields
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	return f
}

func TestYahooFieldsToQuote(t *testing.T) {
	t.Parallel()

	fetchedAt := time.Date(2025, time.March, 14, 8, 0, 0, 0, time.UTC)
	f := decodeFields(t, `{
		"symbol": "AAPL",
		"shortName": "Apple Inc.",
		"regularMarketPrice": 150.25,
		"regularMarketPreviousClose": {"raw": 148.0, "fmt": "148.00"},
		"currency": "USD",
		"marketCap": 2500000000000,
		"trailingPE": "28.4",
		"fiftyTwoWeekHigh": 199.62,
		"regularMarketVolume": null
	}`)

	quote, ok := f.ToQuote("aapl", fetchedAt)

	require.True(t, ok)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "Apple Inc.", quote.DisplayName)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("150.25")))
	require.True(t, quote.PreviousClose.Valid)
	assert.True(t, quote.PreviousClose.Decimal.Equal(decimal.NewFromInt(148)))
	assert.True(t, quote.PERatio.Decimal.Equal(decimal.RequireFromString("28.4")))
	assert.True(t, quote.Week52High.Valid)
	assert.False(t, quote.Week52Low.Valid)
	assert.False(t, quote.Volume.Valid)
	assert.Equal(t, TextPlaceholder, quote.Sector)
	assert.Equal(t, fetchedAt, quote.FetchedAt)
}

func TestYahooFieldsToQuoteDefaults(t *testing.T) {
	t.Parallel()

	quote, ok := decodeFields(t, `{"currentPrice": 10}`).ToQuote("XYZ", time.Time{})

	require.True(t, ok)
	assert.Equal(t, "XYZ", quote.Symbol)
	assert.Equal(t, "XYZ", quote.DisplayName)
	assert.Equal(t, "USD", quote.Currency)
	assert.True(t, quote.Change().IsZero())
}

func TestYahooFieldsToQuotePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   string
		price string
		ok    bool
	}{
		{"current price first", `{"currentPrice": 151, "regularMarketPrice": 150}`, "151", true},
		{"zero current price falls back", `{"currentPrice": 0, "regularMarketPrice": 150}`, "150", true},
		{"null current price falls back", `{"currentPrice": null, "regularMarketPrice": {"raw": 150.5}}`, "150.5", true},
		{"zero regular market price", `{"regularMarketPrice": 0}`, "", false},
		{"both zero", `{"currentPrice": 0, "regularMarketPrice": 0}`, "", false},
		{"negative price", `{"regularMarketPrice": -3}`, "", false},
		{"unparsable price", `{"symbol": "FAKE", "shortName": "Fake", "regularMarketPrice": "n/a"}`, "", false},
		{"no price", `{"symbol": "FAKE"}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			quote, ok := decodeFields(t, tt.raw).ToQuote("FAKE", time.Time{})
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, quote.Price.Equal(decimal.RequireFromString(tt.price)), quote.Price.String())
			}
		})
	}
}

func TestYahooChartMetaToQuote(t *testing.T) {
	t.Parallel()

	var chart YahooChartResponse
	require.NoError(t, json.Unmarshal([]byte(`{"chart":{"result":[{"meta":{
		"symbol":"MSFT","shortName":"Microsoft Corporation","currency":"USD",
		"regularMarketPrice":410,"chartPreviousClose":400,
		"fiftyTwoWeekHigh":468.35,"fiftyTwoWeekLow":309.45,"regularMarketVolume":21000000
	}}],"error":null}}`), &chart))
	var summary YahooQuoteSummaryResponse
	require.NoError(t, json.Unmarshal([]byte(`{"quoteSummary":{"result":[{
		"assetProfile":{"sector":"Technology"},
		"summaryDetail":{"marketCap":{"raw":3050000000000,"fmt":"3.05T"},"trailingPE":{"raw":35.2},"fiftyTwoWeekHigh":{"raw":1}},
		"price":{"longName":"Microsoft Corporation"}
	}],"error":null}}`), &summary))
	require.Len(t, chart.Chart.Result, 1)

	quote, ok := MergeYahooFields(summary.Fields(), chart.Chart.Result[0].Meta).ToQuote("MSFT", time.Time{})

	require.True(t, ok)
	assert.Equal(t, "Microsoft Corporation", quote.DisplayName)
	assert.Equal(t, "Technology", quote.Sector)
	assert.Equal(t, "2.50", quote.ChangePercent().StringFixed(2))
	assert.True(t, quote.MarketCap.Decimal.Equal(decimal.NewFromInt(3050000000000)))
	assert.True(t, quote.PERatio.Decimal.Equal(decimal.RequireFromString("35.2")))
	assert.True(t, quote.Week52High.Decimal.Equal(decimal.RequireFromString("468.35")))
	assert.True(t, quote.Volume.Decimal.Equal(decimal.NewFromInt(21000000)))
}

func TestYahooQuoteSummaryWithoutResult(t *testing.T) {
	t.Parallel()

	assert.Nil(t, YahooQuoteSummaryResponse{}.Fields())
}

func TestYahooFieldsToNewsItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want NewsItem
		ok   bool
	}{
		{
			name: "flat",
			raw:  `{"title": "Apple beats estimates", "publisher": "Reuters", "link": "https://example.com/a"}`,
			want: NewsItem{Title: "Apple beats estimates", URL: "https://example.com/a", Source: "Reuters"},
			ok:   true,
		},
		{
			name: "nested content",
			raw: `{"id": "1", "content": {
				"title": "iPhone sales slow",
				"summary": "Demand cools.",
				"canonicalUrl": {"url": "https://example.com/b"},
				"provider": {"displayName": "Bloomberg"}
			}}`,
			want: NewsItem{Title: "iPhone sales slow", Summary: "Demand cools.", URL: "https://example.com/b", Source: "Bloomberg"},
			ok:   true,
		},
		{
			name: "click through fallback",
			raw:  `{"content": {"title": "T", "canonicalUrl": null, "clickThroughUrl": {"url": "https://example.com/c"}}}`,
			want: NewsItem{Title: "T", URL: "https://example.com/c"},
			ok:   true,
		},
		{
			name: "untitled",
			raw:  `{"publisher": "Reuters", "link": "https://example.com/d"}`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			item, ok := decodeFields(t, tt.raw).ToNewsItem()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, item)
		})
	}
}

func TestQuoteChangePercent(t *testing.T) {
	t.Parallel()

	q := Quote{
		Symbol:        "AAPL",
		Price:         decimal.NewFromInt(150),
		PreviousClose: decimal.NewNullDecimal(decimal.NewFromInt(148)),
	}
	assert.Equal(t, "2.00", q.Change().StringFixed(2))
	assert.Equal(t, "1.35", q.ChangePercent().StringFixed(2))

	q.PreviousClose = decimal.NewNullDecimal(decimal.Zero)
	assert.True(t, q.ChangePercent().IsZero())

	assert.Equal(t, "AAPL", Quote{Symbol: "AAPL", DisplayName: TextPlaceholder}.Label())
}
