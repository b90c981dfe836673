package service

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"golang-stock-watchlist/internal/bot/config"
	"golang-stock-watchlist/internal/bot/dto"
	"golang-stock-watchlist/internal/bot/repository"
	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/pkg/common"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/telegram"
	"golang-stock-watchlist/pkg/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// PipelineState is Idle or Running.
type PipelineState string

const (
	StateIdle    PipelineState = "idle"
	StateRunning PipelineState = "running"
)

// Run triggers recorded in the report history.
const (
	TriggerCron   = "cron"
	TriggerManual = "manual"
)

// ScheduledReportPipeline sends the daily report to the configured recipient.
type ScheduledReportPipeline interface {
	Start(ctx context.Context) error
	Stop()
	RunOnce(ctx context.Context) dto.RunOutcome
	State() PipelineState
}

type scheduledReportPipeline struct {
	cfg          *config.Config
	watchlist    WatchlistService
	orchestrator FetchOrchestrator
	general      GeneralNewsAggregator
	composer     *telegram.ReportComposer
	sender       telegram.Sender
	lock         repository.RunLockRepository
	runs         repository.ReportRunRepository
	log          *logger.Logger
	location     *time.Location
	running      atomic.Bool
	cron         *cron.Cron
	now          func() time.Time
}

// NewScheduledReportPipeline creates a new ScheduledReportPipeline.
func NewScheduledReportPipeline(
	cfg *config.Config,
	watchlist WatchlistService,
	orchestrator FetchOrchestrator,
	general GeneralNewsAggregator,
	composer *telegram.ReportComposer,
	sender telegram.Sender,
	lock repository.RunLockRepository,
	runs repository.ReportRunRepository,
	log *logger.Logger,
) ScheduledReportPipeline {
	loc := cfg.Location()
	return &scheduledReportPipeline{
		cfg:          cfg,
		watchlist:    watchlist,
		orchestrator: orchestrator,
		general:      general,
		composer:     composer,
		sender:       sender,
		lock:         lock,
		runs:         runs,
		log:          log,
		location:     loc,
		now:          func() time.Time { return utils.TimeNowIn(loc) },
	}
}

// Start registers the daily trigger. Runs use ctx as their parent.
func (p *scheduledReportPipeline) Start(ctx context.Context) error {
	p.cron = cron.New(cron.WithLocation(p.location))
	spec := fmt.Sprintf("%d %d * * *", p.cfg.Scheduler.Minute, p.cfg.Scheduler.Hour)
	if _, err := p.cron.AddFunc(spec, func() {
		utils.RunSafe(func() { p.run(ctx, TriggerCron) })
	}); err != nil {
		return fmt.Errorf("failed to register scheduled report: %w", err)
	}
	p.cron.Start()
	p.log.Info("Scheduled report registered",
		logger.StringField("cron", spec),
		logger.StringField("time_zone", p.location.String()),
		logger.Field("has_recipient", p.cfg.HasRecipient()))
	return nil
}

// Stop stops the trigger and waits for a running job to finish.
func (p *scheduledReportPipeline) Stop() {
	if p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
}

func (p *scheduledReportPipeline) State() PipelineState {
	if p.running.Load() {
		return StateRunning
	}
	return StateIdle
}

// RunOnce performs one manually triggered report run. Without a recipient it
// does nothing, and while another run is in progress it is skipped. The
// pipeline always ends Idle.
func (p *scheduledReportPipeline) RunOnce(ctx context.Context) dto.RunOutcome {
	return p.run(ctx, TriggerManual)
}

func (p *scheduledReportPipeline) run(ctx context.Context, trigger string) dto.RunOutcome {
	if !p.cfg.HasRecipient() {
		p.log.DebugContext(ctx, "Scheduled report skipped, no recipient configured")
		return dto.RunOutcome{Status: dto.RunStatusNoRecipient}
	}
	if !p.running.CompareAndSwap(false, true) {
		p.log.WarnContext(ctx, "Scheduled report skipped, previous run still in progress")
		return dto.RunOutcome{Status: dto.RunStatusOverlap}
	}
	defer p.running.Store(false)

	chatID := p.cfg.Telegram.ChatID
	outcome := dto.RunOutcome{RunID: uuid.NewString()}
	ctx = logger.WithFields(ctx,
		logger.StringField("run_id", outcome.RunID),
		logger.StringField("trigger", trigger),
		logger.Field("chat_id", chatID))

	startedAt := time.Now()
	defer func() { p.record(ctx, trigger, chatID, startedAt, outcome) }()

	if p.cfg.Scheduler.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Scheduler.RunTimeout)
		defer cancel()
	}

	acquired, err := p.lock.Acquire(ctx, common.RedisKeyScheduledReportLock, outcome.RunID, p.lockTTL())
	switch {
	case err != nil:
		p.log.WarnContext(ctx, "Failed to acquire scheduled report lock, running unguarded", logger.ErrorField(err))
	case !acquired:
		p.log.WarnContext(ctx, "Scheduled report skipped, lock held by another run")
		outcome.Status = dto.RunStatusOverlap
		return outcome
	default:
		defer func() {
			if err := p.lock.Release(context.WithoutCancel(ctx), common.RedisKeyScheduledReportLock, outcome.RunID); err != nil {
				p.log.WarnContext(ctx, "Failed to release scheduled report lock", logger.ErrorField(err))
			}
		}()
	}

	p.log.InfoContext(ctx, "Scheduled report started")
	symbols, err := p.watchlist.Symbols(ctx, strconv.FormatInt(chatID, 10))
	if err != nil {
		p.log.ErrorContext(ctx, "Failed to load watchlist for scheduled report", logger.ErrorField(err))
		outcome.Status = dto.RunStatusFailed
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Symbols = len(symbols)
	if len(symbols) == 0 {
		p.log.InfoContext(ctx, "Scheduled report skipped, watchlist is empty")
		outcome.Status = dto.RunStatusEmpty
		return outcome
	}

	now := p.now()
	results := p.orchestrator.Fetch(ctx, symbols, dto.FetchOptions{})
	quotesText := p.composer.FormatScheduledQuotes(results, now)
	if err := p.sender.SendText(ctx, chatID, quotesText, telegram.SendOptions{}); err != nil {
		p.log.ErrorContext(ctx, "Failed to send scheduled quotes", logger.ErrorField(err))
		outcome.Error = err.Error()
	} else {
		outcome.QuotesSent = true
		outcome.Messages++
	}

	// the news phase runs regardless of the quotes phase
	headlines := p.general.Fetch(ctx, p.cfg.Report.ScheduledNewsLimit)
	if len(headlines) > 0 {
		newsText := p.composer.FormatHeadlines("Top Finance News Today", headlines, time.Time{})
		if err := p.sender.SendText(ctx, chatID, newsText, telegram.SendOptions{DisableWebPagePreview: true}); err != nil {
			p.log.ErrorContext(ctx, "Failed to send scheduled news", logger.ErrorField(err))
			if outcome.Error == "" {
				outcome.Error = err.Error()
			}
		} else {
			outcome.NewsSent = true
			outcome.Messages++
		}
	}

	if outcome.Error == "" {
		outcome.Status = dto.RunStatusCompleted
	} else if outcome.Messages > 0 {
		outcome.Status = dto.RunStatusPartial
	} else {
		outcome.Status = dto.RunStatusFailed
	}
	p.log.InfoContext(ctx, "Scheduled report finished",
		logger.StringField("status", outcome.Status),
		logger.IntField("messages", outcome.Messages))
	return outcome
}

// record stores the outcome in the run history. Failures are only logged.
func (p *scheduledReportPipeline) record(ctx context.Context, trigger string, chatID int64, startedAt time.Time, outcome dto.RunOutcome) {
	run := &entity.ReportRun{
		RunID:      outcome.RunID,
		ChatID:     chatID,
		Trigger:    trigger,
		Status:     outcome.Status,
		Symbols:    outcome.Symbols,
		Messages:   outcome.Messages,
		QuotesSent: outcome.QuotesSent,
		NewsSent:   outcome.NewsSent,
		Error:      outcome.Error,
		StartedAt:  startedAt,
		DurationMs: time.Since(startedAt).Milliseconds(),
	}
	if err := p.runs.Create(context.WithoutCancel(ctx), run); err != nil {
		p.log.WarnContext(ctx, "Failed to record scheduled report run", logger.ErrorField(err))
	}
}

func (p *scheduledReportPipeline) lockTTL() time.Duration {
	if p.cfg.Scheduler.RunTimeout > 0 {
		return p.cfg.Scheduler.RunTimeout
	}
	return 10 * time.Minute
}
