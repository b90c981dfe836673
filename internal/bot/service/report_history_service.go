package service

import (
	"context"

	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/internal/bot/repository"
	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/pkg/apperror"
	"golang-stock-watchlist/pkg/logger"
)

// MaxHistoryLimit caps how many runs one history query returns.
const MaxHistoryLimit = 100

// ReportHistoryService reads the recorded scheduled report runs.
type ReportHistoryService interface {
	Recent(ctx context.Context, limit int) ([]dto.ReportRunResponse, error)
	Get(ctx context.Context, runID string) (*dto.ReportRunResponse, error)
}

type reportHistoryService struct {
	runs repository.ReportRunRepository
	log  *logger.Logger
}

// NewReportHistoryService creates a new ReportHistoryService.
func NewReportHistoryService(runs repository.ReportRunRepository, log *logger.Logger) ReportHistoryService {
	return &reportHistoryService{runs: runs, log: log}
}

func (s *reportHistoryService) Recent(ctx context.Context, limit int) ([]dto.ReportRunResponse, error) {
	if limit < 1 || limit > MaxHistoryLimit {
		return nil, apperror.Validation("history.Recent", "limit must be between 1 and 100")
	}
	runs, err := s.runs.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ReportRunResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, toReportRunResponse(run))
	}
	return responses, nil
}

func (s *reportHistoryService) Get(ctx context.Context, runID string) (*dto.ReportRunResponse, error) {
	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	response := toReportRunResponse(*run)
	return &response, nil
}

func toReportRunResponse(run entity.ReportRun) dto.ReportRunResponse {
	return dto.ReportRunResponse{
		RunID:      run.RunID,
		ChatID:     run.ChatID,
		Trigger:    run.Trigger,
		Status:     run.Status,
		Symbols:    run.Symbols,
		Messages:   run.Messages,
		QuotesSent: run.QuotesSent,
		NewsSent:   run.NewsSent,
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		DurationMs: run.DurationMs,
	}
}
