package entity

import (
	"time"
)

// ReportRun records the outcome of one scheduled report run.
type ReportRun struct {
	RunID      string    `gorm:"primaryKey;size:36" json:"run_id"`
	ChatID     int64     `gorm:"not null" json:"chat_id"`
	Trigger    string    `gorm:"column:triggered_by;size:16;not null" json:"trigger"`
	Status     string    `gorm:"size:32;not null;index" json:"status"`
	Symbols    int       `gorm:"not null;default:0" json:"symbols"`
	Messages   int       `gorm:"not null;default:0" json:"messages"`
	QuotesSent bool      `gorm:"not null;default:false" json:"quotes_sent"`
	NewsSent   bool      `gorm:"not null;default:false" json:"news_sent"`
	Error      string    `gorm:"type:text" json:"error"`
	StartedAt  time.Time `gorm:"not null;index" json:"started_at"`
	DurationMs int64     `gorm:"not null;default:0" json:"duration_ms"`
}

// TableName specifies the table name for the ReportRun model.
func (ReportRun) TableName() string {
	return "report_runs"
}
