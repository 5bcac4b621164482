package analytics

import (
	"math"
	"time"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

// Risk factor names, in the order they appear in RiskResult.Factors.
const (
	FactorMortality       = "mortality"
	FactorFCR             = "fcr"
	FactorThermal         = "thermal"
	FactorProductionTrend = "production_trend"
	FactorActiveOutbreaks = "active_outbreaks"
	FactorVaccineGaps     = "vaccine_gaps"
	FactorRecentStress    = "recent_stress"
)

// Factor weights. They must sum to 1.0.
const (
	weightMortality       = 0.25
	weightFCR             = 0.15
	weightThermal         = 0.15
	weightProductionTrend = 0.20
	weightActiveOutbreaks = 0.10
	weightVaccineGaps     = 0.10
	weightRecentStress    = 0.05
)

const (
	riskScale     = 6.0
	riskIntercept = -2.0

	recentDays = 7
	fcrDays    = 30

	// recommendations fire when a single factor passes this value
	recommendationThreshold = 0.5
)

// Recommendation messages.
const (
	RecommendLabSamples  = "High mortality: request lab samples and isolate affected birds"
	RecommendVentilation = "Heat stress: improve ventilation and water supply"
	RecommendDiet        = "Poor feed conversion: review diet and feeder wastage"
)

// OutbreakRisk scores the probability of a disease outbreak from seven weighted factors.
//
//	z = 6·Σ(weight·value) − 2
//	probability = 1 / (1 + e^−z)
//
// A farm with no live birds has no risk. Recommendations are driven by individual
// factors, not by the combined probability.
func OutbreakRisk(ds *models.FarmDataset, ref time.Time) models.RiskResult {
	hens := ActiveHeadCountTotal(ds)
	if hens == 0 {
		return models.RiskResult{
			Factors:         []models.RiskFactor{},
			Recommendations: []models.Recommendation{},
		}
	}

	mortality := mortalityFactor(ds, hens, ref)
	fcr := fcrFactor(ds, ref)
	thermal := thermalFactor(ds.Weather)

	factors := []models.RiskFactor{
		{Name: FactorMortality, Weight: weightMortality, Value: mortality},
		{Name: FactorFCR, Weight: weightFCR, Value: fcr},
		{Name: FactorThermal, Weight: weightThermal, Value: thermal},
		{Name: FactorProductionTrend, Weight: weightProductionTrend, Value: productionTrendFactor(ds.Production)},
		{Name: FactorActiveOutbreaks, Weight: weightActiveOutbreaks, Value: math.Min(1, float64(ActiveOutbreakCount(ds))/3)},
		{Name: FactorVaccineGaps, Weight: weightVaccineGaps, Value: math.Min(1, float64(OverdueVaccineCount(ds, ref))/5)},
		{Name: FactorRecentStress, Weight: weightRecentStress, Value: math.Min(1, float64(recentStressCount(ds, ref))/3)},
	}

	var score float64
	for _, f := range factors {
		score += f.Weight * f.Value
	}
	z := riskScale*score + riskIntercept
	probability := 1 / (1 + math.Exp(-z))

	classification := 0
	if probability >= 0.5 {
		classification = 1
	}

	recommendations := []models.Recommendation{}
	if mortality > recommendationThreshold {
		recommendations = append(recommendations, models.Recommendation{Priority: "high", Message: RecommendLabSamples})
	}
	if thermal > recommendationThreshold {
		recommendations = append(recommendations, models.Recommendation{Priority: "high", Message: RecommendVentilation})
	}
	if fcr > recommendationThreshold {
		recommendations = append(recommendations, models.Recommendation{Priority: "medium", Message: RecommendDiet})
	}

	return models.RiskResult{
		Probability:     probability,
		Classification:  classification,
		Factors:         factors,
		Recommendations: recommendations,
	}
}

// ActiveOutbreakCount counts outbreaks still marked active.
func ActiveOutbreakCount(ds *models.FarmDataset) int {
	n := 0
	for _, o := range ds.Outbreaks {
		if o.IsActive() {
			n++
		}
	}
	return n
}

// OverdueVaccineCount counts pending vaccines scheduled before ref.
func OverdueVaccineCount(ds *models.FarmDataset, ref time.Time) int {
	today := day(ref)
	n := 0
	for _, v := range ds.Vaccines {
		if v.IsPending() && day(v.ScheduledDate).Before(today) {
			n++
		}
	}
	return n
}

// mortalityFactor is the 7-day death rate against live birds, saturating at 10 %.
func mortalityFactor(ds *models.FarmDataset, hens int, ref time.Time) float64 {
	deaths := 0
	for _, p := range ds.Production {
		if withinDays(p.Date, ref, recentDays) {
			deaths += p.Deaths
		}
	}
	rate := ratio(float64(deaths), float64(hens)) * 100
	return math.Min(1, rate/10)
}

// fcrFactor maps the 30-day feed conversion ratio from 2 (no risk) to 4 (full risk).
func fcrFactor(ds *models.FarmDataset, ref time.Time) float64 {
	fcr := trailingFCR(ds, ref, fcrDays)
	if fcr == 0 {
		return 0
	}
	return clamp01((fcr - 2) / 2)
}

// trailingFCR is feed kg over egg mass kg for the last n days, 0 when no eggs were laid.
func trailingFCR(ds *models.FarmDataset, ref time.Time, n int) float64 {
	var feedKg, eggs float64
	for _, c := range ds.FeedConsumption {
		if withinDays(c.Date, ref, n) {
			feedKg += c.QuantityKg
		}
	}
	for _, p := range ds.Production {
		if withinDays(p.Date, ref, n) {
			eggs += float64(p.EggsCollected)
		}
	}
	return ratio(feedKg, eggs*EggMassKg)
}

// thermalFactor uses the most recent weather sample. Later entries win date ties.
func thermalFactor(samples []models.WeatherSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	latest := samples[0]
	for _, s := range samples[1:] {
		if !s.Date.Before(latest.Date) {
			latest = s
		}
	}

	thi := ThermalIndex(latest.Temp, latest.Humidity)
	if thi <= 28 {
		return 0
	}
	return math.Min(1, (thi-25)/10)
}

// productionTrendFactor penalises a falling line over the last 7 daily totals.
func productionTrendFactor(records []models.ProductionRecord) float64 {
	totals := dailyEggTotals(records)
	if len(totals) < recentDays {
		return 0
	}
	slope, _ := fitLine(eggSeries(totals[len(totals)-recentDays:]))
	if slope >= 0 {
		return 0
	}
	return math.Min(1, math.Abs(slope)/10)
}

func recentStressCount(ds *models.FarmDataset, ref time.Time) int {
	n := 0
	for _, e := range ds.StressEvents {
		if withinDays(e.Date, ref, recentDays) {
			n++
		}
	}
	return n
}
