package dto

import (
	"time"
)

// UpsertWatchlistRequest is the body of PUT /api/v1/watchlists/{owner_id}/{symbol}.
type UpsertWatchlistRequest struct {
	DisplayName string `json:"display_name" example:"Apple Inc."`
}

// WatchlistEntryResponse is one watchlist row as returned by the admin API.
type WatchlistEntryResponse struct {
	OwnerID     string `json:"owner_id" example:"123456789"`
	Symbol      string `json:"symbol" example:"AAPL"`
	DisplayName string `json:"display_name" example:"Apple Inc."`
	AddedOn     string `json:"added_on" example:"2024-03-01"`
}

// Outcomes of a scheduled report run.
const (
	RunStatusCompleted   = "completed"
	RunStatusPartial     = "partial"
	RunStatusFailed      = "failed"
	RunStatusNoRecipient = "skipped_no_recipient"
	RunStatusEmpty       = "skipped_empty"
	RunStatusOverlap     = "skipped_overlap"
)

// RunOutcome describes one scheduled report run.
type RunOutcome struct {
	RunID      string `json:"run_id,omitempty"`
	Status     string `json:"status" example:"completed"`
	Symbols    int    `json:"symbols"`
	Messages   int    `json:"messages"`
	QuotesSent bool   `json:"quotes_sent"`
	NewsSent   bool   `json:"news_sent"`
	Error      string `json:"error,omitempty"`
}

// ErrorResponse is the admin API error body.
type ErrorResponse struct {
	Kind    string `json:"kind" example:"not_found"`
	Message string `json:"message"`
}

// ReportRunResponse is one entry of the report run history.
type ReportRunResponse struct {
	RunID      string    `json:"run_id" example:"6f1c2d7e-9a43-4c1b-8f0e-2b5d7a9c1e34"`
	ChatID     int64     `json:"chat_id" example:"123456789"`
	Trigger    string    `json:"trigger" example:"cron"`
	Status     string    `json:"status" example:"completed"`
	Symbols    int       `json:"symbols"`
	Messages   int       `json:"messages"`
	QuotesSent bool      `json:"quotes_sent"`
	NewsSent   bool      `json:"news_sent"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
}
