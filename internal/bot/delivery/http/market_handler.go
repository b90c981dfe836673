package http

import (
	"net/http"
	"strconv"

	"golang-stock-watchlist/internal/bot/service"
	"golang-stock-watchlist/pkg/apperror"
	"golang-stock-watchlist/pkg/logger"

	"github.com/labstack/echo/v4"
)

const maxNewsLimit = 50

// MarketHandler exposes quotes and general news.
type MarketHandler struct {
	quotes           service.QuoteProvider
	news             service.GeneralNewsAggregator
	defaultNewsLimit int
	logger           *logger.Logger
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(quotes service.QuoteProvider, news service.GeneralNewsAggregator, defaultNewsLimit int, logger *logger.Logger) *MarketHandler {
	return &MarketHandler{quotes: quotes, news: news, defaultNewsLimit: defaultNewsLimit, logger: logger}
}

// RegisterRoutes registers the market routes to the Echo group.
func (h *MarketHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/quotes/:symbol", h.GetQuote)
	g.GET("/news", h.GetNews)
}

// GetQuote godoc
// @Summary Get a quote
// @Tags market
// @Produce  json
// @Param   symbol  path    string true    "Ticker symbol"
// @Success 200 {object} dto.Quote
// @Failure 404 {object} dto.ErrorResponse
// @Router /quotes/{symbol} [get]
func (h *MarketHandler) GetQuote(c echo.Context) error {
	quote, ok := h.quotes.Fetch(c.Request().Context(), c.Param("symbol"))
	if !ok {
		return respondError(c, h.logger, apperror.NotFound("http.GetQuote", "quote not available"))
	}
	return c.JSON(http.StatusOK, quote)
}

// GetNews godoc
// @Summary Get general finance news
// @Tags market
// @Produce  json
// @Param   limit  query    int false    "Maximum number of items"
// @Success 200 {array} dto.NewsItem
// @Failure 400 {object} dto.ErrorResponse
// @Router /news [get]
func (h *MarketHandler) GetNews(c echo.Context) error {
	limit := h.defaultNewsLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxNewsLimit {
			return respondError(c, h.logger, apperror.Validation("http.GetNews", "limit must be between 1 and 50"))
		}
		limit = parsed
	}
	return c.JSON(http.StatusOK, h.news.Fetch(c.Request().Context(), limit))
}
