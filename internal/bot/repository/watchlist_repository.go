package repository

//go:generate mockgen -source=watchlist_repository.go -destination=../../../mocks/mock_watchlist_repository.go -package=mocks

import (
	"context"
	"time"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/pkg/apperror"
	"golang-stock-watchlist/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WatchlistRepository persists watchlist entries partitioned by owner.
type WatchlistRepository interface {
	List(ctx context.Context, ownerID string) ([]entity.WatchlistEntry, error)
	Upsert(ctx context.Context, ownerID, symbol, displayName string) error
	Remove(ctx context.Context, ownerID, symbol string) (bool, error)
	Owners(ctx context.Context) ([]string, error)
}

type watchlistRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewWatchlistRepository creates a new gorm backed WatchlistRepository.
func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db, now: time.Now}
}

func (r *watchlistRepository) List(ctx context.Context, ownerID string) ([]entity.WatchlistEntry, error) {
	var entries []entity.WatchlistEntry
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("symbol ASC").
		Find(&entries).Error
	if err != nil {
		return nil, apperror.Storage("watchlist.List", err)
	}
	return entries, nil
}

// Upsert inserts the entry or replaces the one stored under the same key.
func (r *watchlistRepository) Upsert(ctx context.Context, ownerID, symbol, displayName string) error {
	symbol = utils.NormalizeSymbol(symbol)
	if ownerID == "" || symbol == "" {
		return apperror.Validation("watchlist.Upsert", "owner id and symbol are required")
	}
	entry := entity.WatchlistEntry{
		OwnerID:     ownerID,
		Symbol:      symbol,
		DisplayName: displayName,
		AddedOn:     datatypes.Date(r.now()),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "added_on", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return apperror.Storage("watchlist.Upsert", err)
	}
	return nil
}

// Remove deletes the entry and reports whether a row existed.
func (r *watchlistRepository) Remove(ctx context.Context, ownerID, symbol string) (bool, error) {
	symbol = utils.NormalizeSymbol(symbol)
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND symbol = ?", ownerID, symbol).
		Delete(&entity.WatchlistEntry{})
	if result.Error != nil {
		return false, apperror.Storage("watchlist.Remove", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Owners returns every owner id with at least one entry.
func (r *watchlistRepository) Owners(ctx context.Context) ([]string, error) {
	var owners []string
	err := r.db.WithContext(ctx).
		Model(&entity.WatchlistEntry{}).
		Distinct("owner_id").
		Order("owner_id ASC").
		Pluck("owner_id", &owners).Error
	if err != nil {
		return nil, apperror.Storage("watchlist.Owners", err)
	}
	return owners, nil
}
