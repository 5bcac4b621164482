package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/flockwatch/internal/config"
	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// Reporter produces the scheduled reports.
type Reporter interface {
	Today() time.Time
	RecordDailySnapshot(ctx context.Context, ref time.Time) (models.KpiSnapshot, error)
	GenerateDailyReport(ctx context.Context, ref time.Time) (string, error)
	GenerateWeeklyReport(ctx context.Context, ref time.Time) (string, error)
}

// Notifier delivers a report over WhatsApp.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	reporter  Reporter
	notifier  Notifier
	groupID   string
	managerID string
	logger    *zap.Logger
}

// NewScheduler registers the daily and weekly jobs in the configured timezone.
func NewScheduler(cfg config.Config, reporter Reporter, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Reporting.Timezone, err)
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reporter:  reporter,
		notifier:  notifier,
		groupID:   cfg.WhatsApp.GroupID,
		managerID: cfg.WhatsApp.ManagerID,
		logger:    logger,
	}

	if _, err := s.cron.AddFunc(cfg.Reporting.CronSchedule, s.withTimeout(s.runDaily)); err != nil {
		return nil, fmt.Errorf("schedule daily report %q: %w", cfg.Reporting.CronSchedule, err)
	}
	if _, err := s.cron.AddFunc(cfg.Reporting.WeeklyCronSchedule, s.withTimeout(s.runWeekly)); err != nil {
		return nil, fmt.Errorf("schedule weekly report %q: %w", cfg.Reporting.WeeklyCronSchedule, err)
	}

	return s, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduled job still running at shutdown")
	}
}

func (s *Scheduler) withTimeout(job func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := job(ctx); err != nil {
			s.logger.Error("scheduled job failed", zap.Error(err))
		}
	}
}

// runDaily stores the day's KPI snapshot and posts the daily report to the workers group.
func (s *Scheduler) runDaily(ctx context.Context) error {
	ref := s.reporter.Today()
	s.logger.Info("running daily report", zap.Time("date", ref))

	if _, err := s.reporter.RecordDailySnapshot(ctx, ref); err != nil {
		s.logger.Warn("daily snapshot not recorded", zap.Error(err))
	}

	report, err := s.reporter.GenerateDailyReport(ctx, ref)
	if err != nil {
		return fmt.Errorf("generate daily report: %w", err)
	}
	return s.deliver(ctx, s.groupID, report, "daily")
}

// runWeekly posts the weekly report to the farm manager.
func (s *Scheduler) runWeekly(ctx context.Context) error {
	ref := s.reporter.Today()
	s.logger.Info("running weekly report", zap.Time("date", ref))

	report, err := s.reporter.GenerateWeeklyReport(ctx, ref)
	if err != nil {
		return fmt.Errorf("generate weekly report: %w", err)
	}
	return s.deliver(ctx, s.managerID, report, "weekly")
}

func (s *Scheduler) deliver(ctx context.Context, to, report, kind string) error {
	if to == "" {
		s.logger.Warn("no recipient configured, report dropped", zap.String("report", kind))
		return nil
	}

	if err := s.notifier.SendOutbound(ctx, models.OutboundMessageRequest{To: to, Message: report}); err != nil {
		return fmt.Errorf("send %s report: %w", kind, err)
	}
	s.logger.Info("report sent", zap.String("report", kind), zap.String("to", to))
	return nil
}
