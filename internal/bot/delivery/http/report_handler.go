package http

import (
	"net/http"
	"strconv"

	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/internal/bot/service"
	"golang-stock-watchlist/pkg/apperror"
	"golang-stock-watchlist/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultHistoryLimit = 20

// ReportHandler triggers report runs, serves the run history and reports service health.
type ReportHandler struct {
	pipeline service.ScheduledReportPipeline
	history  service.ReportHistoryService
	logger   *logger.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(pipeline service.ScheduledReportPipeline, history service.ReportHistoryService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{pipeline: pipeline, history: history, logger: logger}
}

// RegisterRoutes registers the report routes to the Echo group.
func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/reports/scheduled/run", h.RunScheduledReport)
	g.GET("/reports/runs", h.GetReportRuns)
	g.GET("/reports/runs/:run_id", h.GetReportRun)
}

// RegisterHealth registers the health endpoint on the root router.
func (h *ReportHandler) RegisterHealth(e *echo.Echo) {
	e.GET("/healthz", h.Health)
}

// RunScheduledReport godoc
// @Summary Run the scheduled report now
// @Description Runs the daily report once for the configured recipient
// @Tags reports
// @Produce  json
// @Success 200 {object} dto.RunOutcome
// @Failure 409 {object} dto.RunOutcome
// @Router /reports/scheduled/run [post]
func (h *ReportHandler) RunScheduledReport(c echo.Context) error {
	outcome := h.pipeline.RunOnce(c.Request().Context())
	if outcome.Status == dto.RunStatusOverlap {
		return c.JSON(http.StatusConflict, outcome)
	}
	return c.JSON(http.StatusOK, outcome)
}

// GetReportRuns godoc
// @Summary List report runs
// @Description Get the most recent scheduled report runs, newest first
// @Tags reports
// @Produce  json
// @Param   limit  query    int false    "Maximum number of runs (1-100)"
// @Success 200 {array} dto.ReportRunResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /reports/runs [get]
func (h *ReportHandler) GetReportRuns(c echo.Context) error {
	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return respondError(c, h.logger, apperror.Validation("http.GetReportRuns", "limit must be a number"))
		}
		limit = parsed
	}
	runs, err := h.history.Recent(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, runs)
}

// GetReportRun godoc
// @Summary Get a report run
// @Tags reports
// @Produce  json
// @Param   run_id  path    string true    "Run ID"
// @Success 200 {object} dto.ReportRunResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /reports/runs/{run_id} [get]
func (h *ReportHandler) GetReportRun(c echo.Context) error {
	run, err := h.history.Get(c.Request().Context(), c.Param("run_id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, run)
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce  json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *ReportHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "ok",
		"pipeline": string(h.pipeline.State()),
	})
}
