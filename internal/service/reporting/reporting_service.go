package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/flockwatch/internal/analytics"
	"github.com/mamadbah2/flockwatch/internal/domain/models"
	"github.com/mamadbah2/flockwatch/internal/metrics"
	"github.com/mamadbah2/flockwatch/internal/repository/mongodb"
	"github.com/mamadbah2/flockwatch/internal/repository/sheets"
)

// ErrUnknownFlock is returned when a flock id is not present in the workbook.
var ErrUnknownFlock = errors.New("unknown flock")

const historyDays = 7

// Options tunes the reporting service.
type Options struct {
	ForecastDays int
	Location     *time.Location
}

// Service loads farm snapshots and runs the analytics engine over them.
type Service struct {
	source       sheets.Source
	history      mongodb.Repository
	metrics      *metrics.Recorder
	forecastDays int
	loc          *time.Location
	logger       *zap.Logger
	now          func() time.Time
}

// NewService wires a new reporting service instance. history and recorder may be nil.
func NewService(source sheets.Source, history mongodb.Repository, recorder *metrics.Recorder, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = analytics.DefaultForecastDays
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		source:       source,
		history:      history,
		metrics:      recorder,
		forecastDays: opts.ForecastDays,
		loc:          opts.Location,
		logger:       logger,
		now:          time.Now,
	}
}

// Today is the current calendar date in the farm's timezone.
func (s *Service) Today() time.Time {
	local := s.now().In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Dataset loads a fresh farm snapshot.
func (s *Service) Dataset(ctx context.Context) (*models.FarmDataset, error) {
	ds, err := s.source.Load(ctx)
	s.metrics.ObserveLoad(err)
	if err != nil {
		return nil, fmt.Errorf("load farm dataset: %w", err)
	}
	return ds, nil
}

// KPIs computes the KPI snapshot for ref.
func (s *Service) KPIs(ctx context.Context, ref time.Time) (models.KpiSnapshot, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return models.KpiSnapshot{}, err
	}
	return analytics.ComputeKPIs(ds, ref), nil
}

// Risk classifies outbreak risk at ref.
func (s *Service) Risk(ctx context.Context, ref time.Time) (models.RiskResult, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return models.RiskResult{}, err
	}
	return analytics.OutbreakRisk(ds, ref), nil
}

// Forecast projects egg production days ahead; non-positive days use the configured horizon.
func (s *Service) Forecast(ctx context.Context, days int) (models.ForecastResult, error) {
	if days <= 0 {
		days = s.forecastDays
	}
	ds, err := s.Dataset(ctx)
	if err != nil {
		return models.ForecastResult{}, err
	}
	return analytics.Forecast(ds.Production, days), nil
}

// Alerts scans the farm for actionable conditions at ref.
func (s *Service) Alerts(ctx context.Context, ref time.Time) ([]models.Alert, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.Alerts(ds, ref), nil
}

// FlockHealth returns the health breakdown of one flock.
func (s *Service) FlockHealth(ctx context.Context, flockID string) (models.HealthBreakdown, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return models.HealthBreakdown{}, err
	}
	b, ok := analytics.FlockHealth(ds, flockID)
	if !ok {
		return models.HealthBreakdown{}, fmt.Errorf("%w: %s", ErrUnknownFlock, flockID)
	}
	return b, nil
}

// FlockStage returns the age and lifecycle band of one flock at ref.
func (s *Service) FlockStage(ctx context.Context, flockID string, ref time.Time) (models.FlockStage, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return models.FlockStage{}, err
	}
	f, ok := ds.FindFlock(flockID)
	if !ok {
		return models.FlockStage{}, fmt.Errorf("%w: %s", ErrUnknownFlock, flockID)
	}
	age := analytics.FlockAge(f, ref)
	return models.FlockStage{
		FlockID:  f.ID,
		AgeDays:  age.Days,
		AgeWeeks: age.Weeks,
		Stage:    analytics.LifecycleStageOf(f, ref),
	}, nil
}

// PestScore rates current biosecurity pressure.
func (s *Service) PestScore(ctx context.Context) (int, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return 0, err
	}
	return analytics.PestScore(ds), nil
}

// RecordDailySnapshot computes the day's analytics, publishes them as metrics and
// stores the KPI snapshot in the history store.
func (s *Service) RecordDailySnapshot(ctx context.Context, ref time.Time) (models.KpiSnapshot, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return models.KpiSnapshot{}, err
	}

	kpi := analytics.ComputeKPIs(ds, ref)
	s.publish(ds, ref, kpi)

	if s.history == nil {
		return kpi, nil
	}

	kpi.CreatedAt = s.now().UTC()
	if err := s.history.SaveKpiSnapshot(ctx, kpi); err != nil {
		return kpi, fmt.Errorf("save kpi snapshot: %w", err)
	}

	s.logger.Info("kpi snapshot recorded",
		zap.Time("date", kpi.Date),
		zap.Int("eggs_today", kpi.EggsToday),
		zap.Float64("hen_day", kpi.HenDay))
	return kpi, nil
}

// GenerateDailyReport builds the end-of-day WhatsApp summary.
func (s *Service) GenerateDailyReport(ctx context.Context, ref time.Time) (string, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return "", err
	}

	kpi := analytics.ComputeKPIs(ds, ref)
	risk := analytics.OutbreakRisk(ds, ref)
	alerts := analytics.Alerts(ds, ref)
	s.publish(ds, ref, kpi)

	return joinSections(
		"*Daily report*",
		FormatKPIs(kpi),
		FormatRiskSummary(risk),
		FormatAlerts(alerts),
	), nil
}

// GenerateWeeklyReport builds the weekly summary: the last week's snapshots, the
// production forecast, outbreak risk and per-flock health.
func (s *Service) GenerateWeeklyReport(ctx context.Context, ref time.Time) (string, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return "", err
	}

	kpi := analytics.ComputeKPIs(ds, ref)
	forecast := analytics.Forecast(ds.Production, s.forecastDays)
	risk := analytics.OutbreakRisk(ds, ref)

	health := make([]models.HealthBreakdown, 0, len(ds.Flocks))
	for _, f := range ds.Flocks {
		if f.Status == models.FlockStatusDescarte {
			continue
		}
		if b, ok := analytics.FlockHealth(ds, f.ID); ok {
			health = append(health, b)
		}
	}

	sections := []string{
		fmt.Sprintf("*Weekly report* (week ending %s)", ref.Format(time.DateOnly)),
		FormatKPIs(kpi),
	}

	if s.history != nil {
		snapshots, err := s.history.LatestKpiSnapshots(ctx, historyDays)
		if err != nil {
			s.logger.Warn("kpi history unavailable", zap.Error(err))
		} else if len(snapshots) > 0 {
			sections = append(sections, FormatHistory(snapshots))
		}
	}

	sections = append(sections,
		FormatForecast(forecast),
		FormatRisk(risk),
		FormatHealthTable(health),
		fmt.Sprintf("Pest score: %d/100", analytics.PestScore(ds)),
	)
	return joinSections(sections...), nil
}

func (s *Service) publish(ds *models.FarmDataset, ref time.Time, kpi models.KpiSnapshot) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveKPIs(kpi)
	s.metrics.ObserveRisk(analytics.OutbreakRisk(ds, ref))
	s.metrics.ObserveAlerts(analytics.Alerts(ds, ref))
	s.metrics.ObservePestScore(analytics.PestScore(ds))
	for _, f := range ds.Flocks {
		s.metrics.ObserveFlockHealth(f.ID, analytics.HealthScore(ds, f.ID))
	}
}
