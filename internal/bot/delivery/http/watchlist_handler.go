package http

import (
	"net/http"
	"time"

	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/internal/bot/service"
	"golang-stock-watchlist/pkg/apperror"
	"golang-stock-watchlist/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WatchlistHandler handles HTTP requests for watchlists.
type WatchlistHandler struct {
	watchlistService service.WatchlistService
	logger           *logger.Logger
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlistService service.WatchlistService, logger *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService, logger: logger}
}

// RegisterRoutes registers the watchlist routes to the Echo group.
func (h *WatchlistHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetOwners)
	g.GET("/:owner_id", h.GetWatchlist)
	g.PUT("/:owner_id/:symbol", h.UpsertEntry)
	g.DELETE("/:owner_id/:symbol", h.RemoveEntry)
}

// GetOwners godoc
// @Summary List watchlist owners
// @Description List every owner id that has at least one watchlist entry
// @Tags watchlists
// @Produce  json
// @Success 200 {array} string
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists [get]
func (h *WatchlistHandler) GetOwners(c echo.Context) error {
	owners, err := h.watchlistService.Owners(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, owners)
}

// GetWatchlist godoc
// @Summary Get a watchlist
// @Description Get the entries of one owner, sorted by symbol
// @Tags watchlists
// @Produce  json
// @Param   owner_id  path    string true    "Owner ID (Telegram chat id)"
// @Success 200 {array} dto.WatchlistEntryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists/{owner_id} [get]
func (h *WatchlistHandler) GetWatchlist(c echo.Context) error {
	entries, err := h.watchlistService.List(c.Request().Context(), c.Param("owner_id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	response := make([]dto.WatchlistEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, dto.WatchlistEntryResponse{
			OwnerID:     e.OwnerID,
			Symbol:      e.Symbol,
			DisplayName: e.DisplayName,
			AddedOn:     time.Time(e.AddedOn).Format(time.DateOnly),
		})
	}
	return c.JSON(http.StatusOK, response)
}

// UpsertEntry godoc
// @Summary Add or replace a watchlist entry
// @Description Store a symbol for an owner without validating it upstream
// @Tags watchlists
// @Accept  json
// @Produce  json
// @Param   owner_id  path    string true    "Owner ID"
// @Param   symbol    path    string true    "Ticker symbol"
// @Param   entry     body    dto.UpsertWatchlistRequest false "Display name"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists/{owner_id}/{symbol} [put]
func (h *WatchlistHandler) UpsertEntry(c echo.Context) error {
	var req dto.UpsertWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.logger, apperror.Validation("http.UpsertEntry", "invalid request payload"))
	}
	if err := h.watchlistService.Upsert(c.Request().Context(), c.Param("owner_id"), c.Param("symbol"), req.DisplayName); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveEntry godoc
// @Summary Remove a watchlist entry
// @Tags watchlists
// @Param   owner_id  path    string true    "Owner ID"
// @Param   symbol    path    string true    "Ticker symbol"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists/{owner_id}/{symbol} [delete]
func (h *WatchlistHandler) RemoveEntry(c echo.Context) error {
	outcomes, err := h.watchlistService.Remove(c.Request().Context(), c.Param("owner_id"), []string{c.Param("symbol")})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if len(outcomes) == 0 || !outcomes[0].Removed {
		return respondError(c, h.logger, apperror.NotFound("http.RemoveEntry", "entry not found"))
	}
	return c.NoContent(http.StatusNoContent)
}

func respondError(c echo.Context, log *logger.Logger, err error) error {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.ErrorContext(c.Request().Context(), "Request failed",
			logger.StringField("path", c.Path()),
			logger.ErrorField(err))
	}
	return c.JSON(status, dto.ErrorResponse{
		Kind:    string(apperror.KindOf(err)),
		Message: err.Error(),
	})
}
