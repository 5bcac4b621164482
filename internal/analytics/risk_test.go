package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

func factorValue(t *testing.T, res models.RiskResult, name string) float64 {
	t.Helper()
	for _, f := range res.Factors {
		if f.Name == name {
			return f.Value
		}
	}
	t.Fatalf("factor %q missing", name)
	return 0
}

func TestOutbreakRisk_NoPopulation(t *testing.T) {
	tests := []struct {
		name string
		ds   *models.FarmDataset
	}{
		{"empty farm", &models.FarmDataset{}},
		{"all birds dead", &models.FarmDataset{
			Flocks:     []models.Flock{{ID: "f1", Count: 10}},
			Production: []models.ProductionRecord{{Date: refDate, FlockID: "f1", Deaths: 10}},
			Outbreaks:  []models.Outbreak{{FlockID: "f1", Status: models.OutbreakActive}},
		}},
		{"only culled flocks", &models.FarmDataset{
			Flocks: []models.Flock{{ID: "f1", Count: 300, Status: models.FlockStatusDescarte}},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := OutbreakRisk(tc.ds, refDate)
			assert.Zero(t, res.Probability)
			assert.Zero(t, res.Classification)
			assert.Empty(t, res.Factors)
			assert.Empty(t, res.Recommendations)
		})
	}
}

func TestOutbreakRisk_HighRiskScenario(t *testing.T) {
	ds := &models.FarmDataset{
		Flocks:     []models.Flock{{ID: "f1", Count: 100, Status: models.FlockStatusProduccion}},
		Production: dailyProduction("f1", 7, constant(20), 10),
		Outbreaks: []models.Outbreak{
			{FlockID: "f1", Status: models.OutbreakActive, Disease: "Newcastle"},
			{FlockID: "f1", Status: models.OutbreakActive, Disease: "Gumboro"},
		},
		Vaccines:     []models.Vaccine{{FlockID: "f1", Name: "Marek", Status: models.VaccinePending, ScheduledDate: mustDate("2025-01-01")}},
		StressEvents: []models.StressEvent{{Date: refDate, Severity: 5}},
		Weather:      []models.WeatherSample{{Date: refDate, Temp: 40, Humidity: 80}},
	}

	res := OutbreakRisk(ds, refDate)

	assert.Greater(t, res.Probability, 0.5)
	assert.Equal(t, 1, res.Classification)
	assert.Len(t, res.Factors, 7)
	assert.NotEmpty(t, res.Recommendations)

	assert.Equal(t, 1.0, factorValue(t, res, FactorMortality))
	assert.Equal(t, 1.0, factorValue(t, res, FactorThermal))
	assert.InDelta(t, 2.0/3, factorValue(t, res, FactorActiveOutbreaks), 1e-9)
	assert.InDelta(t, 0.2, factorValue(t, res, FactorVaccineGaps), 1e-9)
	assert.InDelta(t, 1.0/3, factorValue(t, res, FactorRecentStress), 1e-9)
	assert.Zero(t, factorValue(t, res, FactorFCR))
	assert.InDelta(t, 0.735, res.Probability, 0.001)

	var messages []string
	for _, r := range res.Recommendations {
		messages = append(messages, r.Message)
	}
	assert.ElementsMatch(t, []string{RecommendLabSamples, RecommendVentilation}, messages)
}

func TestOutbreakRisk_HealthyFlock(t *testing.T) {
	ds := &models.FarmDataset{
		Flocks:     []models.Flock{{ID: "f1", Count: 1000, Status: models.FlockStatusProduccion}},
		Production: dailyProduction("f1", 7, constant(900), 0),
	}

	res := OutbreakRisk(ds, refDate)

	require.Len(t, res.Factors, 7)
	assert.Less(t, res.Probability, 0.5)
	assert.Equal(t, 0, res.Classification)
	assert.Empty(t, res.Recommendations)
	// every factor at zero leaves only the intercept: 1/(1+e^2)
	assert.InDelta(t, 0.1192, res.Probability, 0.0001)
}

func TestOutbreakRisk_Factors(t *testing.T) {
	base := func() *models.FarmDataset {
		return &models.FarmDataset{
			Flocks: []models.Flock{{ID: "f1", Count: 1000, Status: models.FlockStatusProduccion}},
		}
	}

	t.Run("weights sum to one", func(t *testing.T) {
		ds := base()
		var total float64
		for _, f := range OutbreakRisk(ds, refDate).Factors {
			total += f.Weight
		}
		assert.InDelta(t, 1.0, total, 1e-9)
	})

	t.Run("mortality ignores deaths older than a week", func(t *testing.T) {
		ds := base()
		ds.Production = []models.ProductionRecord{
			{Date: daysAgo(10), FlockID: "f1", Deaths: 100},
			{Date: daysAgo(2), FlockID: "f1", Deaths: 45},
		}
		// 45 / 855 live birds = 5.26 % → 0.526
		assert.InDelta(t, 45.0/855*100/10, factorValue(t, OutbreakRisk(ds, refDate), FactorMortality), 1e-9)
	})

	t.Run("falling production", func(t *testing.T) {
		ds := base()
		ds.Production = dailyProduction("f1", 10, func(i int) int { return 900 - i*20 }, 0)
		assert.Equal(t, 1.0, factorValue(t, OutbreakRisk(ds, refDate), FactorProductionTrend))
	})

	t.Run("gently falling production", func(t *testing.T) {
		ds := base()
		ds.Production = dailyProduction("f1", 7, func(i int) int { return 900 - i*5 }, 0)
		assert.InDelta(t, 0.5, factorValue(t, OutbreakRisk(ds, refDate), FactorProductionTrend), 1e-9)
	})

	t.Run("rising production", func(t *testing.T) {
		ds := base()
		ds.Production = dailyProduction("f1", 7, func(i int) int { return 800 + i*20 }, 0)
		assert.Zero(t, factorValue(t, OutbreakRisk(ds, refDate), FactorProductionTrend))
	})

	t.Run("trend needs seven days", func(t *testing.T) {
		ds := base()
		ds.Production = dailyProduction("f1", 6, func(i int) int { return 900 - i*100 }, 0)
		assert.Zero(t, factorValue(t, OutbreakRisk(ds, refDate), FactorProductionTrend))
	})

	t.Run("poor feed conversion", func(t *testing.T) {
		ds := base()
		ds.Production = []models.ProductionRecord{{Date: daysAgo(3), FlockID: "f1", EggsCollected: 1000}}
		// 60 kg of eggs, 180 kg feed → FCR 3 → 0.5
		ds.FeedConsumption = []models.FeedConsumption{
			{Date: daysAgo(3), FlockID: "f1", QuantityKg: 180},
			{Date: daysAgo(40), FlockID: "f1", QuantityKg: 5000},
		}
		assert.InDelta(t, 0.5, factorValue(t, OutbreakRisk(ds, refDate), FactorFCR), 1e-9)
	})

	t.Run("efficient feed conversion is not negative", func(t *testing.T) {
		ds := base()
		ds.Production = []models.ProductionRecord{{Date: daysAgo(3), FlockID: "f1", EggsCollected: 1000}}
		ds.FeedConsumption = []models.FeedConsumption{{Date: daysAgo(3), FlockID: "f1", QuantityKg: 60}}
		assert.Zero(t, factorValue(t, OutbreakRisk(ds, refDate), FactorFCR))
	})

	t.Run("latest weather sample wins", func(t *testing.T) {
		ds := base()
		ds.Weather = []models.WeatherSample{
			{Date: daysAgo(0), Temp: 40, Humidity: 80},
			{Date: daysAgo(5), Temp: -30, Humidity: 10},
		}
		assert.Equal(t, 1.0, factorValue(t, OutbreakRisk(ds, refDate), FactorThermal))
	})

	t.Run("cold weather has no thermal risk", func(t *testing.T) {
		ds := base()
		ds.Weather = []models.WeatherSample{{Date: refDate, Temp: -10, Humidity: 50}}
		assert.Zero(t, factorValue(t, OutbreakRisk(ds, refDate), FactorThermal))
	})

	t.Run("outbreak and vaccine factors saturate", func(t *testing.T) {
		ds := base()
		for i := 0; i < 4; i++ {
			ds.Outbreaks = append(ds.Outbreaks, models.Outbreak{FlockID: "f1", Status: models.OutbreakActive})
		}
		ds.Outbreaks = append(ds.Outbreaks, models.Outbreak{FlockID: "f1", Status: models.OutbreakResolved})
		for i := 0; i < 6; i++ {
			ds.Vaccines = append(ds.Vaccines, models.Vaccine{FlockID: "f1", Status: models.VaccinePending, ScheduledDate: daysAgo(1)})
		}
		ds.Vaccines = append(ds.Vaccines,
			models.Vaccine{FlockID: "f1", Status: models.VaccineApplied, ScheduledDate: daysAgo(1)},
			models.Vaccine{FlockID: "f1", Status: models.VaccinePending, ScheduledDate: refDate},
		)

		res := OutbreakRisk(ds, refDate)
		assert.Equal(t, 1.0, factorValue(t, res, FactorActiveOutbreaks))
		assert.Equal(t, 1.0, factorValue(t, res, FactorVaccineGaps))
		assert.Equal(t, 6, OverdueVaccineCount(ds, refDate))
	})

	t.Run("old stress events are ignored", func(t *testing.T) {
		ds := base()
		ds.StressEvents = []models.StressEvent{{Date: daysAgo(6)}, {Date: daysAgo(7)}, {Date: daysAgo(30)}}
		assert.InDelta(t, 1.0/3, factorValue(t, OutbreakRisk(ds, refDate), FactorRecentStress), 1e-9)
	})
}

func TestOutbreakRisk_RecommendationForMortality(t *testing.T) {
	ds := &models.FarmDataset{
		Flocks:     []models.Flock{{ID: "f1", Count: 100, Status: models.FlockStatusProduccion}},
		Production: dailyProduction("f1", 7, constant(50), 8),
	}

	res := OutbreakRisk(ds, refDate)
	require.NotEmpty(t, res.Recommendations)
	assert.Equal(t, "high", res.Recommendations[0].Priority)
	assert.Equal(t, RecommendLabSamples, res.Recommendations[0].Message)
}

func TestOutbreakRisk_ProbabilityBounds(t *testing.T) {
	datasets := []*models.FarmDataset{
		{
			Flocks:     []models.Flock{{ID: "f1", Count: 500}},
			Production: []models.ProductionRecord{{Date: refDate, FlockID: "f1", EggsCollected: 200}},
		},
		{
			Flocks:       []models.Flock{{ID: "f1", Count: 1}},
			Production:   dailyProduction("f1", 14, func(i int) int { return 10000 - i*700 }, 0),
			Outbreaks:    []models.Outbreak{{Status: models.OutbreakActive}, {Status: models.OutbreakActive}, {Status: models.OutbreakActive}},
			Vaccines:     []models.Vaccine{{ScheduledDate: daysAgo(9)}, {ScheduledDate: daysAgo(9)}, {ScheduledDate: daysAgo(9)}, {ScheduledDate: daysAgo(9)}, {ScheduledDate: daysAgo(9)}},
			StressEvents: []models.StressEvent{{Date: refDate}, {Date: refDate}, {Date: refDate}},
			Weather:      []models.WeatherSample{{Temp: 45, Humidity: 95}},
			FeedConsumption: []models.FeedConsumption{
				{Date: refDate, QuantityKg: 1e6},
			},
		},
	}

	for _, ds := range datasets {
		res := OutbreakRisk(ds, refDate)
		assert.GreaterOrEqual(t, res.Probability, 0.0)
		assert.LessOrEqual(t, res.Probability, 1.0)
		for _, f := range res.Factors {
			assert.GreaterOrEqual(t, f.Value, 0.0, f.Name)
			assert.LessOrEqual(t, f.Value, 1.0, f.Name)
		}
	}
}
