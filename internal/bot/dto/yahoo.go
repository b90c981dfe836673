package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// YahooChartResponse is the envelope of /v8/finance/chart/{symbol}.
type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta YahooFields `json:"meta"`
		} `json:"result"`
		Error json.RawMessage `json:"error"`
	} `json:"chart"`
}

// YahooQuoteSummaryResponse is the envelope of /v10/finance/quoteSummary/{symbol}.
// Each result maps a module name (assetProfile, summaryDetail, price) to its fields.
type YahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]YahooFields `json:"result"`
		Error  json.RawMessage          `json:"error"`
	} `json:"quoteSummary"`
}

// Fields flattens the modules of the first result into one record.
func (r YahooQuoteSummaryResponse) Fields() YahooFields {
	if len(r.QuoteSummary.Result) == 0 {
		return nil
	}
	modules := make([]YahooFields, 0, len(r.QuoteSummary.Result[0]))
	for _, name := range []string{"assetProfile", "summaryDetail", "price"} {
		if module, ok := r.QuoteSummary.Result[0][name]; ok {
			modules = append(modules, module)
		}
	}
	return MergeYahooFields(modules...)
}

// YahooSearchResponse is the envelope of /v1/finance/search.
type YahooSearchResponse struct {
	News []YahooFields `json:"news"`
}

// YahooFields keeps a record undecoded so every field can be read on its own.
// A field with an unexpected shape reads as missing instead of failing the record.
type YahooFields map[string]json.RawMessage

// Number returns the first of keys that holds a number. Both plain values and
// the {"raw": 1.5, "fmt": "1.50"} form are accepted, as are quoted numbers.
func (f YahooFields) Number(keys ...string) decimal.NullDecimal {
	for _, key := range keys {
		if d, ok := parseNumber(f[key]); ok {
			return decimal.NewNullDecimal(d)
		}
	}
	return decimal.NullDecimal{}
}

// PositiveNumber returns the first of keys that holds a number above zero.
func (f YahooFields) PositiveNumber(keys ...string) decimal.NullDecimal {
	for _, key := range keys {
		if d, ok := parseNumber(f[key]); ok && d.IsPositive() {
			return decimal.NewNullDecimal(d)
		}
	}
	return decimal.NullDecimal{}
}

// MergeYahooFields combines records. A key present in a later record wins.
func MergeYahooFields(records ...YahooFields) YahooFields {
	merged := YahooFields{}
	for _, record := range records {
		for key, value := range record {
			merged[key] = value
		}
	}
	return merged
}

// Text returns the first of keys that holds a non-blank string.
func (f YahooFields) Text(keys ...string) string {
	for _, key := range keys {
		raw, ok := f[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
			continue
		}
		var formatted struct {
			Fmt string `json:"fmt"`
		}
		if err := json.Unmarshal(raw, &formatted); err == nil && strings.TrimSpace(formatted.Fmt) != "" {
			return strings.TrimSpace(formatted.Fmt)
		}
	}
	return ""
}

// Object returns the nested record under key, or nil.
func (f YahooFields) Object(key string) YahooFields {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var nested YahooFields
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil
	}
	return nested
}

func parseNumber(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Decimal{}, false
	}
	if raw[0] == '{' {
		var wrapped struct {
			Raw json.RawMessage `json:"raw"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return decimal.Decimal{}, false
		}
		return parseNumber(wrapped.Raw)
	}
	d, err := decimal.NewFromString(strings.Trim(string(raw), `"`))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ToQuote converts a quote record. The second result is false when neither
// the current price nor the regular market price is above zero.
func (f YahooFields) ToQuote(symbol string, fetchedAt time.Time) (Quote, bool) {
	price := f.PositiveNumber("currentPrice", "regularMarketPrice")
	if !price.Valid {
		return Quote{}, false
	}

	if s := f.Text("symbol"); s != "" {
		symbol = s
	}
	name := f.Text("shortName", "longName", "displayName")
	if name == "" {
		name = symbol
	}
	currency := f.Text("currency", "financialCurrency")
	if currency == "" {
		currency = "USD"
	}
	sector := f.Text("sector")
	if sector == "" {
		sector = TextPlaceholder
	}

	return Quote{
		Symbol:        symbol,
		DisplayName:   name,
		Price:         price.Decimal,
		PreviousClose: f.Number("regularMarketPreviousClose", "chartPreviousClose", "previousClose"),
		Currency:      currency,
		MarketCap:     f.Number("marketCap"),
		PERatio:       f.Number("trailingPE"),
		Week52High:    f.Number("fiftyTwoWeekHigh"),
		Week52Low:     f.Number("fiftyTwoWeekLow"),
		Volume:        f.Number("regularMarketVolume", "volume"),
		Sector:        sector,
		FetchedAt:     fetchedAt,
	}, true
}

// ToNewsItem converts a search news record. Both the flat form
// {title, publisher, link} and the nested {content: {...}} form are read.
// The second result is false when no title is present.
func (f YahooFields) ToNewsItem() (NewsItem, bool) {
	item := NewsItem{
		Title:   f.Text("title"),
		Summary: f.Text("summary"),
		URL:     f.Text("link", "url"),
		Source:  f.Text("publisher"),
	}
	if content := f.Object("content"); content != nil {
		if item.Title == "" {
			item.Title = content.Text("title")
		}
		if item.Summary == "" {
			item.Summary = content.Text("summary", "description")
		}
		if item.URL == "" {
			if canonical := content.Object("canonicalUrl"); canonical != nil {
				item.URL = canonical.Text("url")
			}
		}
		if item.URL == "" {
			if click := content.Object("clickThroughUrl"); click != nil {
				item.URL = click.Text("url")
			}
		}
		if item.Source == "" {
			if provider := content.Object("provider"); provider != nil {
				item.Source = provider.Text("displayName")
			}
		}
	}
	if item.Title == "" {
		return NewsItem{}, false
	}
	return item, true
}
