package repository

//go:generate mockgen -source=report_run_repository.go -destination=../../../mocks/mock_report_run_repository.go -package=mocks

import (
	"context"
	"errors"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/pkg/apperror"

	"gorm.io/gorm"
)

// ReportRunRepository stores the history of scheduled report runs.
type ReportRunRepository interface {
	Create(ctx context.Context, run *entity.ReportRun) error
	FindByID(ctx context.Context, runID string) (*entity.ReportRun, error)
	FindRecent(ctx context.Context, limit int) ([]entity.ReportRun, error)
}

type reportRunRepository struct {
	db *gorm.DB
}

// NewReportRunRepository creates a new gorm backed ReportRunRepository.
func NewReportRunRepository(db *gorm.DB) ReportRunRepository {
	return &reportRunRepository{db: db}
}

func (r *reportRunRepository) Create(ctx context.Context, run *entity.ReportRun) error {
	if run.RunID == "" {
		return apperror.Validation("reportRun.Create", "run id is required")
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return apperror.Storage("reportRun.Create", err)
	}
	return nil
}

func (r *reportRunRepository) FindByID(ctx context.Context, runID string) (*entity.ReportRun, error) {
	var run entity.ReportRun
	err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("reportRun.FindByID", "report run not found")
	}
	if err != nil {
		return nil, apperror.Storage("reportRun.FindByID", err)
	}
	return &run, nil
}

// FindRecent returns the newest runs first.
func (r *reportRunRepository) FindRecent(ctx context.Context, limit int) ([]entity.ReportRun, error) {
	var runs []entity.ReportRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, apperror.Storage("reportRun.FindRecent", err)
	}
	return runs, nil
}
