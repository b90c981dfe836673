package service

import (
	"context"

	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/internal/bot/repository"
	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/pkg/apperror"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/utils"
)

// WatchlistService manages watchlists on top of the store.
type WatchlistService interface {
	List(ctx context.Context, ownerID string) ([]entity.WatchlistEntry, error)
	Symbols(ctx context.Context, ownerID string) ([]string, error)
	Add(ctx context.Context, ownerID string, symbols []string) ([]dto.AddOutcome, error)
	Remove(ctx context.Context, ownerID string, symbols []string) ([]dto.RemoveOutcome, error)
	Upsert(ctx context.Context, ownerID, symbol, displayName string) error
	Contains(ctx context.Context, ownerID, symbol string) (bool, error)
	Owners(ctx context.Context) ([]string, error)
}

type watchlistService struct {
	repo   repository.WatchlistRepository
	quotes QuoteProvider
	log    *logger.Logger
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(repo repository.WatchlistRepository, quotes QuoteProvider, log *logger.Logger) WatchlistService {
	return &watchlistService{repo: repo, quotes: quotes, log: log}
}

func (s *watchlistService) List(ctx context.Context, ownerID string) ([]entity.WatchlistEntry, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *watchlistService) Symbols(ctx context.Context, ownerID string) ([]string, error) {
	entries, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(entries))
	for _, e := range entries {
		symbols = append(symbols, e.Symbol)
	}
	return symbols, nil
}

// Add stores every symbol the quote provider recognizes, using the upstream
// name as display name. Unknown symbols are reported and skipped.
func (s *watchlistService) Add(ctx context.Context, ownerID string, symbols []string) ([]dto.AddOutcome, error) {
	symbols = normalizeSymbols(symbols)
	if len(symbols) == 0 {
		return nil, apperror.Validation("watchlist.Add", "at least one symbol is required")
	}

	outcomes := make([]dto.AddOutcome, 0, len(symbols))
	for _, symbol := range symbols {
		quote, ok := s.quotes.Fetch(ctx, symbol)
		if !ok {
			outcomes = append(outcomes, dto.AddOutcome{Symbol: symbol})
			continue
		}
		if err := s.repo.Upsert(ctx, ownerID, symbol, quote.Label()); err != nil {
			return outcomes, err
		}
		s.log.InfoContext(ctx, "Symbol added to watchlist",
			logger.StringField("owner_id", ownerID),
			logger.StringField("symbol", symbol))
		outcomes = append(outcomes, dto.AddOutcome{Symbol: symbol, Quote: &quote})
	}
	return outcomes, nil
}

func (s *watchlistService) Remove(ctx context.Context, ownerID string, symbols []string) ([]dto.RemoveOutcome, error) {
	symbols = normalizeSymbols(symbols)
	if len(symbols) == 0 {
		return nil, apperror.Validation("watchlist.Remove", "at least one symbol is required")
	}

	outcomes := make([]dto.RemoveOutcome, 0, len(symbols))
	for _, symbol := range symbols {
		removed, err := s.repo.Remove(ctx, ownerID, symbol)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, dto.RemoveOutcome{Symbol: symbol, Removed: removed})
	}
	return outcomes, nil
}

// Upsert stores the entry without consulting the quote provider.
func (s *watchlistService) Upsert(ctx context.Context, ownerID, symbol, displayName string) error {
	return s.repo.Upsert(ctx, ownerID, symbol, displayName)
}

func (s *watchlistService) Contains(ctx context.Context, ownerID, symbol string) (bool, error) {
	symbols, err := s.Symbols(ctx, ownerID)
	if err != nil {
		return false, err
	}
	symbol = utils.NormalizeSymbol(symbol)
	for _, stored := range symbols {
		if stored == symbol {
			return true, nil
		}
	}
	return false, nil
}

func (s *watchlistService) Owners(ctx context.Context) ([]string, error) {
	return s.repo.Owners(ctx)
}

// normalizeSymbols uppercases, drops blanks and removes duplicates keeping first occurrence.
func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		symbol := utils.NormalizeSymbol(raw)
		if symbol == "" {
			continue
		}
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		out = append(out, symbol)
	}
	return out
}
