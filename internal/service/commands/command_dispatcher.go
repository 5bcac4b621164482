package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
	"github.com/mamadbah2/flockwatch/internal/repository/sheets"
	"github.com/mamadbah2/flockwatch/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// HelpText lists the commands understood over WhatsApp.
const HelpText = `Commands:
eggs <flock> <qty> [deaths]
feed <flock> <kg>
mortality <flock> <qty> [reason]
sales <qty> <price> [paid] [client]
expenses <amount> <category>
kpi | risk | alerts | forecast [days] | health <flock>`

// Analytics is the subset of the reporting service the dispatcher relies on.
type Analytics interface {
	Today() time.Time
	KPIs(ctx context.Context, ref time.Time) (models.KpiSnapshot, error)
	Risk(ctx context.Context, ref time.Time) (models.RiskResult, error)
	Forecast(ctx context.Context, days int) (models.ForecastResult, error)
	Alerts(ctx context.Context, ref time.Time) ([]models.Alert, error)
	FlockHealth(ctx context.Context, flockID string) (models.HealthBreakdown, error)
}

// Invalidator drops cached workbook snapshots after a write.
type Invalidator interface {
	Invalidate()
}

// Dispatcher executes parsed commands.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	repo      sheets.Repository
	analytics Analytics
	cache     Invalidator
	logger    *zap.Logger
}

// NewService constructs a command dispatcher. cache may be nil.
func NewService(repository sheets.Repository, analytics Analytics, cache Invalidator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repository,
		analytics: analytics,
		cache:     cache,
		logger:    logger,
	}
}

// HandleCommand records data entry commands in the workbook and answers analytics queries.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	today := s.analytics.Today()

	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandEggs:
		return s.recordEggs(ctx, cmd, today)
	case models.CommandFeed:
		return s.recordFeed(ctx, cmd, today)
	case models.CommandMortality:
		return s.recordMortality(ctx, cmd, today)
	case models.CommandSales:
		return s.recordSale(ctx, cmd, today)
	case models.CommandExpenses:
		return s.recordExpense(ctx, cmd, today)
	case models.CommandKPI:
		kpi, err := s.analytics.KPIs(ctx, today)
		if err != nil {
			return "", err
		}
		return reporting.FormatKPIs(kpi), nil
	case models.CommandRisk:
		res, err := s.analytics.Risk(ctx, today)
		if err != nil {
			return "", err
		}
		return reporting.FormatRisk(res), nil
	case models.CommandForecast:
		days := 0
		if len(cmd.Args) > 0 {
			n, err := strconv.Atoi(cmd.Args[0])
			if err != nil || n <= 0 || n > 60 {
				return "", ErrInvalidArguments
			}
			days = n
		}
		res, err := s.analytics.Forecast(ctx, days)
		if err != nil {
			return "", err
		}
		return reporting.FormatForecast(res), nil
	case models.CommandAlerts:
		alerts, err := s.analytics.Alerts(ctx, today)
		if err != nil {
			return "", err
		}
		return reporting.FormatAlerts(alerts), nil
	case models.CommandHealth:
		if len(cmd.Args) == 0 {
			return "", ErrInvalidArguments
		}
		h, err := s.analytics.FlockHealth(ctx, cmd.Args[0])
		if err != nil {
			return "", err
		}
		return reporting.FormatHealth(h), nil
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) recordEggs(ctx context.Context, cmd models.Command, today time.Time) (string, error) {
	if len(cmd.Args) < 2 {
		return "", ErrInvalidArguments
	}
	flock := cmd.Args[0]
	eggs, err := nonNegativeInt(cmd.Args[1])
	if err != nil {
		return "", err
	}
	deaths := 0
	if len(cmd.Args) > 2 {
		if deaths, err = nonNegativeInt(cmd.Args[2]); err != nil {
			return "", err
		}
	}

	row := []interface{}{today.Format(sheets.DateLayout), flock, eggs, deaths, ""}
	if err := s.write(ctx, sheets.ProductionRange, row); err != nil {
		return "", err
	}

	message := fmt.Sprintf("Egg record saved for %s: flock %s, %d eggs.", today.Format(sheets.DateLayout), flock, eggs)
	if deaths > 0 {
		message += fmt.Sprintf(" %d deaths.", deaths)
	}
	return s.withSummary(ctx, message, today, func(k models.KpiSnapshot) string {
		return fmt.Sprintf("Farm today: %d eggs, hen-day %.1f%%.", k.EggsToday, k.HenDay)
	}), nil
}

func (s *Service) recordFeed(ctx context.Context, cmd models.Command, today time.Time) (string, error) {
	if len(cmd.Args) < 2 {
		return "", ErrInvalidArguments
	}
	flock := cmd.Args[0]
	kg, err := positiveFloat(cmd.Args[1])
	if err != nil {
		return "", err
	}

	row := []interface{}{today.Format(sheets.DateLayout), flock, kg}
	if err := s.write(ctx, sheets.FeedConsumptionRange, row); err != nil {
		return "", err
	}

	message := fmt.Sprintf("Feed usage saved for %s: flock %s, %.2f kg.", today.Format(sheets.DateLayout), flock, kg)
	return s.withSummary(ctx, message, today, func(k models.KpiSnapshot) string {
		return fmt.Sprintf("Feed stock left: %.1f kg.", k.FeedStock)
	}), nil
}

func (s *Service) recordMortality(ctx context.Context, cmd models.Command, today time.Time) (string, error) {
	if len(cmd.Args) < 2 {
		return "", ErrInvalidArguments
	}
	flock := cmd.Args[0]
	deaths, err := nonNegativeInt(cmd.Args[1])
	if err != nil {
		return "", err
	}
	reason := strings.Join(cmd.Args[2:], " ")

	row := []interface{}{today.Format(sheets.DateLayout), flock, 0, deaths, reason}
	if err := s.write(ctx, sheets.ProductionRange, row); err != nil {
		return "", err
	}

	message := fmt.Sprintf("Mortality logged for %s: flock %s, %d birds.", today.Format(sheets.DateLayout), flock, deaths)
	if reason != "" {
		message += fmt.Sprintf(" Reason: %s.", reason)
	}
	return s.withSummary(ctx, message, today, func(k models.KpiSnapshot) string {
		return fmt.Sprintf("Cumulative mortality: %.1f%%.", k.Mortality)
	}), nil
}

func (s *Service) recordSale(ctx context.Context, cmd models.Command, today time.Time) (string, error) {
	if len(cmd.Args) < 2 {
		return "", ErrInvalidArguments
	}
	quantity, err := nonNegativeInt(cmd.Args[0])
	if err != nil {
		return "", err
	}
	price, err := positiveFloat(cmd.Args[1])
	if err != nil {
		return "", err
	}

	total := float64(quantity) * price
	paid := total
	idx := 2
	if len(cmd.Args) > 2 {
		if v, err := strconv.ParseFloat(cmd.Args[2], 64); err == nil && v >= 0 {
			paid = v
			idx = 3
		}
	}

	client := "Walk-in"
	if len(cmd.Args) > idx {
		client = strings.Join(cmd.Args[idx:], " ")
	}

	row := []interface{}{today.Format(sheets.DateLayout), client, quantity, price, paid}
	if err := s.write(ctx, sheets.IncomeRange, row); err != nil {
		return "", err
	}

	return fmt.Sprintf("Sale recorded for %s: %d units @ %.2f (expected %.2f, paid %.2f).", client, quantity, price, total, paid), nil
}

func (s *Service) recordExpense(ctx context.Context, cmd models.Command, today time.Time) (string, error) {
	if len(cmd.Args) < 2 {
		return "", ErrInvalidArguments
	}
	amount, err := positiveFloat(cmd.Args[0])
	if err != nil {
		return "", err
	}
	category := strings.Join(cmd.Args[1:], " ")

	row := []interface{}{today.Format(sheets.DateLayout), category, amount}
	if err := s.write(ctx, sheets.ExpensesRange, row); err != nil {
		return "", err
	}

	return fmt.Sprintf("Expense logged: %s %.2f on %s.", category, amount, today.Format(sheets.DateLayout)), nil
}

func (s *Service) write(ctx context.Context, sheetRange string, row []interface{}) error {
	if err := s.repo.WriteRow(ctx, sheetRange, row); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
	return nil
}

// withSummary appends a KPI line to message; analytics failures only cost the summary.
func (s *Service) withSummary(ctx context.Context, message string, today time.Time, line func(models.KpiSnapshot) string) string {
	kpi, err := s.analytics.KPIs(ctx, today)
	if err != nil {
		s.logger.Debug("analytics summary failed", zap.Error(err))
		return message
	}
	return message + "\n" + line(kpi)
}

func nonNegativeInt(raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, ErrInvalidArguments
	}
	return v, nil
}

func positiveFloat(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrInvalidArguments
	}
	return v, nil
}
