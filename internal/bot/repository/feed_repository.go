package repository

import (
	"context"
	"net/http"
	"strings"

	"golang-stock-watchlist/internal/bot/config"
	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/pkg/apperror"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// FeedRepository reads headlines from one RSS or Atom feed.
type FeedRepository interface {
	GetFeedItems(ctx context.Context, source config.FeedSource, limit int) ([]dto.NewsItem, error)
}

type feedRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
}

// NewFeedRepository creates a new FeedRepository.
func NewFeedRepository(cfg *config.Config, log *logger.Logger) FeedRepository {
	return &feedRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.Feeds.Timeout,
		},
	}
}

// GetFeedItems returns up to limit titled items in feed order.
func (r *feedRepository) GetFeedItems(ctx context.Context, source config.FeedSource, limit int) ([]dto.NewsItem, error) {
	if limit <= 0 {
		return []dto.NewsItem{}, nil
	}

	fp := gofeed.NewParser()
	fp.Client = r.httpClient
	fp.UserAgent = r.cfg.Feeds.UserAgent
	feed, err := fp.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		r.log.WarnContext(ctx, "Failed to parse RSS feed",
			logger.ErrorField(err),
			logger.StringField("source", source.Name),
			logger.StringField("url", source.URL))
		return nil, apperror.Upstream("feed.GetFeedItems", err)
	}

	items := make([]dto.NewsItem, 0, limit)
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		title := utils.CleanToValidUTF8(item.Title)
		if title == "" {
			continue
		}
		items = append(items, dto.NewsItem{
			Title:   title,
			Summary: utils.TruncateRunes(plainText(item.Description), r.cfg.Feeds.SummaryMaxLength),
			URL:     strings.TrimSpace(item.Link),
			Source:  source.Name,
		})
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

// plainText strips markup from a feed description.
func plainText(description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return utils.CleanToValidUTF8(description)
	}
	return strings.Join(strings.Fields(utils.CleanToValidUTF8(doc.Text())), " ")
}
