package entity

import (
	"time"

	"gorm.io/datatypes"
)

// WatchlistEntry is one tracked symbol of one owner. (OwnerID, Symbol) is unique.
type WatchlistEntry struct {
	OwnerID     string         `gorm:"primaryKey;size:64" json:"owner_id"`
	Symbol      string         `gorm:"primaryKey;size:32" json:"symbol"`
	DisplayName string         `gorm:"not null;default:''" json:"display_name"`
	AddedOn     datatypes.Date `gorm:"not null" json:"added_on"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the WatchlistEntry model.
func (WatchlistEntry) TableName() string {
	return "watchlist_entries"
}

// Label returns the display name, or the symbol when no name was stored.
func (e WatchlistEntry) Label() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	return e.Symbol
}
