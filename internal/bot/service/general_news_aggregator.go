package service

import (
	"context"
	"sync"
	"time"

	"golang-stock-watchlist/internal/bot/config"
	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/internal/bot/repository"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/utils"
)

// GeneralNewsAggregator merges headlines from the configured feeds.
type GeneralNewsAggregator interface {
	Fetch(ctx context.Context, limit int) []dto.NewsItem
}

type generalNewsAggregator struct {
	repo           repository.FeedRepository
	sources        []config.FeedSource
	perSourceLimit int
	timeout        time.Duration
	log            *logger.Logger
}

// NewGeneralNewsAggregator creates a GeneralNewsAggregator over sources, kept in the given order.
func NewGeneralNewsAggregator(repo repository.FeedRepository, sources []config.FeedSource, perSourceLimit int, timeout time.Duration, log *logger.Logger) GeneralNewsAggregator {
	return &generalNewsAggregator{
		repo:           repo,
		sources:        append([]config.FeedSource(nil), sources...),
		perSourceLimit: perSourceLimit,
		timeout:        timeout,
		log:            log,
	}
}

// Fetch polls every source concurrently, concatenates their items in source
// order and truncates to limit. A failing source contributes nothing.
func (a *generalNewsAggregator) Fetch(ctx context.Context, limit int) []dto.NewsItem {
	if limit <= 0 || len(a.sources) == 0 {
		return []dto.NewsItem{}
	}

	perSource := make([][]dto.NewsItem, len(a.sources))
	var wg sync.WaitGroup
	for i, source := range a.sources {
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			perSource[i] = a.fetchSource(ctx, source)
		})
	}
	wg.Wait()

	merged := make([]dto.NewsItem, 0, limit)
	for _, items := range perSource {
		for _, item := range items {
			if len(merged) == limit {
				return merged
			}
			merged = append(merged, item)
		}
	}
	return merged
}

func (a *generalNewsAggregator) fetchSource(ctx context.Context, source config.FeedSource) []dto.NewsItem {
	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	items, err := a.repo.GetFeedItems(callCtx, source, a.perSourceLimit)
	if err != nil {
		a.log.WarnContext(ctx, "Skipping feed source", logger.StringField("source", source.Name), logger.ErrorField(err))
		return nil
	}

	valid := make([]dto.NewsItem, 0, len(items))
	for _, item := range items {
		if item.Title == "" {
			continue
		}
		if item.Source == "" {
			item.Source = source.Name
		}
		valid = append(valid, item)
		if len(valid) == a.perSourceLimit {
			break
		}
	}
	return valid
}
