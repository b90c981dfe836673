package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TextPlaceholder is shown for text fields the upstream did not provide.
const TextPlaceholder = "–"

var hundred = decimal.NewFromInt(100)

// Quote is a point-in-time price snapshot for one symbol. Optional numeric
// fields are invalid NullDecimals when the upstream did not provide them.
type Quote struct {
	Symbol        string              `json:"symbol"`
	DisplayName   string              `json:"display_name"`
	Price         decimal.Decimal     `json:"price"`
	PreviousClose decimal.NullDecimal `json:"previous_close"`
	Currency      string              `json:"currency"`
	MarketCap     decimal.NullDecimal `json:"market_cap"`
	PERatio       decimal.NullDecimal `json:"pe_ratio"`
	Week52High    decimal.NullDecimal `json:"week52_high"`
	Week52Low     decimal.NullDecimal `json:"week52_low"`
	Volume        decimal.NullDecimal `json:"volume"`
	Sector        string              `json:"sector"`
	FetchedAt     time.Time           `json:"fetched_at"`
}

// ReferenceClose returns the previous close, or the price itself when it is unknown.
func (q Quote) ReferenceClose() decimal.Decimal {
	if q.PreviousClose.Valid {
		return q.PreviousClose.Decimal
	}
	return q.Price
}

// Change is price minus previous close.
func (q Quote) Change() decimal.Decimal {
	return q.Price.Sub(q.ReferenceClose())
}

// ChangePercent is the change relative to the previous close in percent.
// It is zero when the previous close is zero or unknown.
func (q Quote) ChangePercent() decimal.Decimal {
	ref := q.ReferenceClose()
	if ref.IsZero() {
		return decimal.Zero
	}
	return q.Change().Div(ref).Mul(hundred)
}

// Label returns the display name, falling back to the symbol.
func (q Quote) Label() string {
	if q.DisplayName != "" && q.DisplayName != TextPlaceholder {
		return q.DisplayName
	}
	return q.Symbol
}
