package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

// Source yields a fresh farm snapshot.
type Source interface {
	Load(ctx context.Context) (*models.FarmDataset, error)
}

// DatasetLoader assembles a FarmDataset from the workbook tabs.
type DatasetLoader struct {
	repo     Repository
	fallback models.Settings
	logger   *zap.Logger
}

// NewDatasetLoader builds a loader. fallback is used for any threshold the
// Settings tab does not define.
func NewDatasetLoader(repository Repository, fallback models.Settings, logger *zap.Logger) *DatasetLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatasetLoader{repo: repository, fallback: fallback, logger: logger}
}

// Load reads every tab concurrently and parses the rows. Header and malformed rows
// are skipped; any failed read other than the optional Settings tab aborts the load.
func (l *DatasetLoader) Load(ctx context.Context) (*models.FarmDataset, error) {
	ds := &models.FarmDataset{Settings: l.fallback}
	g, gctx := errgroup.WithContext(ctx)

	read := func(sheetRange string, assign func(rows [][]interface{})) {
		g.Go(func() error {
			rows, err := l.repo.ReadRange(gctx, sheetRange)
			if err != nil {
				return fmt.Errorf("load %s: %w", sheetRange, err)
			}
			assign(rows)
			return nil
		})
	}

	read(FlocksRange, func(rows [][]interface{}) {
		ds.Flocks = parseRows(l.logger, FlocksRange, rows, parseFlock)
	})
	read(ProductionRange, func(rows [][]interface{}) {
		ds.Production = parseRows(l.logger, ProductionRange, rows, parseProduction)
	})
	read(FeedPurchasesRange, func(rows [][]interface{}) {
		ds.FeedPurchases = parseRows(l.logger, FeedPurchasesRange, rows, parseFeedPurchase)
	})
	read(FeedConsumptionRange, func(rows [][]interface{}) {
		ds.FeedConsumption = parseRows(l.logger, FeedConsumptionRange, rows, parseFeedConsumption)
	})
	read(OutbreaksRange, func(rows [][]interface{}) {
		ds.Outbreaks = parseRows(l.logger, OutbreaksRange, rows, parseOutbreak)
	})
	read(VaccinesRange, func(rows [][]interface{}) {
		ds.Vaccines = parseRows(l.logger, VaccinesRange, rows, parseVaccine)
	})
	read(StressRange, func(rows [][]interface{}) {
		ds.StressEvents = parseRows(l.logger, StressRange, rows, parseStress)
	})
	read(WeatherRange, func(rows [][]interface{}) {
		ds.Weather = parseRows(l.logger, WeatherRange, rows, parseWeather)
	})
	read(ExpensesRange, func(rows [][]interface{}) {
		ds.Expenses = parseRows(l.logger, ExpensesRange, rows, parseExpense)
	})
	read(IncomeRange, func(rows [][]interface{}) {
		ds.Income = parseRows(l.logger, IncomeRange, rows, parseIncome)
	})
	read(PestsRange, func(rows [][]interface{}) {
		ds.Biosecurity.PestSightings = parseRows(l.logger, PestsRange, rows, parsePestSighting)
	})
	read(ZonesRange, func(rows [][]interface{}) {
		ds.Biosecurity.Zones = parseRows(l.logger, ZonesRange, rows, parseZone)
	})

	g.Go(func() error {
		rows, err := l.repo.ReadRange(gctx, SettingsRange)
		if err != nil {
			l.logger.Warn("settings tab unavailable, using configured thresholds", zap.Error(err))
			return nil
		}
		ds.Settings = l.applySettings(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Debug("farm dataset loaded",
		zap.Int("flocks", len(ds.Flocks)),
		zap.Int("production", len(ds.Production)),
		zap.Int("outbreaks", len(ds.Outbreaks)))

	return ds, nil
}

// applySettings overlays the Settings tab on the fallback thresholds. Unknown keys
// and unparsable values leave the fallback in place.
func (l *DatasetLoader) applySettings(rows [][]interface{}) models.Settings {
	settings := l.fallback
	for i, row := range rows {
		key, value := strings.ToLower(cell(row, 0)), cell(row, 1)
		if value == "" {
			continue
		}
		switch key {
		case SettingMinFeedStock, SettingMaxMortality:
			v, err := parseFloat(value)
			if err != nil {
				l.logger.Debug("skip malformed setting", zap.Int("row", i+1), zap.String("key", key), zap.Error(err))
				continue
			}
			if key == SettingMinFeedStock {
				settings.MinFeedStock = v
			} else {
				settings.MaxMortality = v
			}
		case SettingAlertDaysBefore:
			v, err := parseInt(value)
			if err != nil {
				l.logger.Debug("skip malformed setting", zap.Int("row", i+1), zap.String("key", key), zap.Error(err))
				continue
			}
			settings.AlertDaysBefore = v
		}
	}
	return settings
}

// parseRows skips the header row, blank rows and rows parse rejects.
func parseRows[T any](logger *zap.Logger, sheetRange string, rows [][]interface{}, parse func([]interface{}) (T, error)) []T {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		if i == 0 || isBlank(row) {
			continue
		}
		v, err := parse(row)
		if err != nil {
			logger.Debug("skip malformed row", zap.String("range", sheetRange), zap.Int("row", i+1), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out
}

func isBlank(row []interface{}) bool {
	for i := range row {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}

func parseFlock(row []interface{}) (models.Flock, error) {
	id := cell(row, 0)
	if id == "" {
		return models.Flock{}, errEmptyCell
	}
	count, err := nonNegative(parseInt(cell(row, 2)))
	if err != nil {
		return models.Flock{}, fmt.Errorf("count: %w", err)
	}
	f := models.Flock{
		ID:     id,
		Name:   cell(row, 1),
		Count:  count,
		Status: models.FlockStatus(strings.ToLower(cell(row, 3))),
	}
	if raw := cell(row, 4); raw != "" {
		birth, err := parseDate(raw)
		if err != nil {
			return models.Flock{}, fmt.Errorf("birth date: %w", err)
		}
		f.BirthDate = &birth
	}
	return f, nil
}

func parseProduction(row []interface{}) (models.ProductionRecord, error) {
	date, err := parseDate(cell(row, 0))
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("date: %w", err)
	}
	eggs, err := nonNegative(optionalInt(cell(row, 2)))
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("eggs: %w", err)
	}
	deaths, err := nonNegative(optionalInt(cell(row, 3)))
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("deaths: %w", err)
	}
	return models.ProductionRecord{Date: date, FlockID: cell(row, 1), EggsCollected: eggs, Deaths: deaths}, nil
}

func parseFeedPurchase(row []interface{}) (models.FeedPurchase, error) {
	date, err := parseDate(cell(row, 0))
	if err != nil {
		return models.FeedPurchase{}, fmt.Errorf("date: %w", err)
	}
	qty, err := parseFloat(cell(row, 1))
	if err != nil {
		return models.FeedPurchase{}, fmt.Errorf("quantity: %w", err)
	}
	cost, err := optionalFloat(cell(row, 2))
	if err != nil {
		return models.FeedPurchase{}, fmt.Errorf("cost: %w", err)
	}
	return models.FeedPurchase{Date: date, QuantityKg: qty, Cost: cost}, nil
}

func parseFeedConsumption(row []interface{}) (models.FeedConsumption, error) {
	date, err := parseDate(cell(row, 0))
	if err != nil {
		return models.FeedConsumption{}, fmt.Errorf("date: %w", err)
	}
	qty, err := parseFloat(cell(row, 2))
	if err != nil {
		return models.FeedConsumption{}, fmt.Errorf("quantity: %w", err)
	}
	return models.FeedConsumption{Date: date, FlockID: cell(row, 1), QuantityKg: qty}, nil
}

func parseOutbreak(row []interface{}) (models.Outbreak, error) {
	date, err := parseDate(cell(row, 0))
	if err != nil {
		return models.Outbreak{}, fmt.Errorf("date: %w", err)
	}
	deaths, err := nonNegative(optionalInt(cell(row, 4)))
	if err != nil {
		return models.Outbreak{}, fmt.Errorf("deaths: %w", err)
	}
	status := models.OutbreakStatus(strings.ToLower(cell(row, 3)))
	if status == "" {
		status = models.OutbreakActive
	}
	return models.Outbreak{
		Date:    date,
		FlockID: cell(row, 1),
		Disease: cell(row, 2),
		Status:  status,
		Deaths:  deaths,
	}, nil
}

func parseVaccine(row []interface{}) (models.Vaccine, error) {
	name := cell(row, 1)
	if name == "" {
		return models.Vaccine{}, fmt.Errorf("name: %w", errEmptyCell)
	}
	scheduled, err := parseDate(cell(row, 2))
	if err != nil {
		return models.Vaccine{}, fmt.Errorf("scheduled date: %w", err)
	}
	return models.Vaccine{
		FlockID:       cell(row, 0),
		Name:          name,
		ScheduledDate: scheduled,
		Status:        models.VaccineStatus(strings.ToLower(cell(row, 3))),
	}, nil
}

func parseStress(row []interface{}) (models.StressEvent, error) {
	date, err := parseDate(cell(row, 0))
	if err != nil {
		return models.StressEvent{}, fmt.Errorf("date: %w", err)
	}
	severity, err := optionalFloat(cell(row, 2))
	if err != nil {
		return models.StressEvent{}, fmt.Errorf("severity: %w", err)
	}
	return models.StressEvent{Date: date, Kind: cell(row, 1), Severity: severity}, nil
}

func parseWeather(row []interface{}) (models.WeatherSample, error) {
	date, err := parseDate(cell(row, 0))
	if err != nil {
		return models.WeatherSample{}, fmt.Errorf("date: %w", err)
	}
	temp, err := parseFloat(cell(row, 1))
	if err != nil {
		return models.WeatherSample{}, fmt.Errorf("temperature: %w", err)
	}
	humidity, err := parseFloat(cell(row, 2))
	if err != nil {
		return models.WeatherSample{}, fmt.Errorf("humidity: %w", err)
	}
	return models.WeatherSample{Date: date, Temp: temp, Humidity: humidity}, nil
}

func parseExpense(row []interface{}) (models.Expense, error) {
	date, err := parseDate(cell(row, 0))
	if err != nil {
		return models.Expense{}, fmt.Errorf("date: %w", err)
	}
	amount, err := parseFloat(cell(row, 2))
	if err != nil {
		return models.Expense{}, fmt.Errorf("amount: %w", err)
	}
	return models.Expense{Date: date, Category: cell(row, 1), Amount: amount}, nil
}

func parseIncome(row []interface{}) (models.Income, error) {
	date, err := parseDate(cell(row, 0))
	if err != nil {
		return models.Income{}, fmt.Errorf("date: %w", err)
	}
	qty, err := optionalFloat(cell(row, 2))
	if err != nil {
		return models.Income{}, fmt.Errorf("quantity: %w", err)
	}
	price, err := optionalFloat(cell(row, 3))
	if err != nil {
		return models.Income{}, fmt.Errorf("unit price: %w", err)
	}
	amount, err := optionalFloat(cell(row, 4))
	if err != nil {
		return models.Income{}, fmt.Errorf("amount: %w", err)
	}
	return models.Income{Date: date, Client: cell(row, 1), Quantity: qty, UnitPrice: price, Amount: amount}, nil
}

func parsePestSighting(row []interface{}) (models.PestSighting, error) {
	date, err := parseDate(cell(row, 0))
	if err != nil {
		return models.PestSighting{}, fmt.Errorf("date: %w", err)
	}
	severity, err := optionalInt(cell(row, 2))
	if err != nil {
		return models.PestSighting{}, fmt.Errorf("severity: %w", err)
	}
	return models.PestSighting{
		Date:     date,
		Zone:     cell(row, 1),
		Severity: severity,
		Resolved: parseBool(cell(row, 3)),
	}, nil
}

func parseZone(row []interface{}) (models.BioZone, error) {
	name := cell(row, 0)
	if name == "" {
		return models.BioZone{}, fmt.Errorf("name: %w", errEmptyCell)
	}
	return models.BioZone{Name: name, RiskLevel: strings.ToLower(cell(row, 1))}, nil
}
