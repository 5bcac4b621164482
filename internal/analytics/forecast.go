package analytics

import (
	"math"
	"time"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

const (
	// DefaultForecastDays is the horizon used when none is given.
	DefaultForecastDays = 7

	minForecastHistory = 7
	forecastWindow     = 14
	wmaGrowth          = 0.2
)

// Forecast projects daily egg totals days ahead from the most recent production history.
//
// The forecast averages two models over the last 14 daily totals: an exponentially
// weighted mean (weight e^(0.2·i), newest heaviest) held flat, and a least squares line
// extrapolated and floored at 0. The band is ± the population standard deviation of the
// line's residuals, with the lower bound floored at 0. With fewer than 7 days of history
// every series is empty.
func Forecast(records []models.ProductionRecord, days int) models.ForecastResult {
	if days <= 0 {
		days = DefaultForecastDays
	}

	totals := dailyEggTotals(records)
	if len(totals) < minForecastHistory {
		return emptyForecast()
	}
	if len(totals) > forecastWindow {
		totals = totals[len(totals)-forecastWindow:]
	}

	values := eggSeries(totals)
	n := len(values)

	var weighted, weights float64
	for i, v := range values {
		w := math.Exp(wmaGrowth * float64(i))
		weighted += v * w
		weights += w
	}
	wma := weighted / weights

	slope, intercept := fitLine(values)
	residuals := make([]float64, n)
	for i, v := range values {
		residuals[i] = v - (intercept + slope*float64(i))
	}
	sd := populationStdDev(residuals)

	res := models.ForecastResult{Actual: values}
	last := totals[n-1].Date
	for k := 0; k < days; k++ {
		linear := math.Max(0, intercept+slope*float64(n+k))
		ensemble := (wma + linear) / 2

		res.Dates = append(res.Dates, last.AddDate(0, 0, k+1))
		res.WMA = append(res.WMA, wma)
		res.Linear = append(res.Linear, linear)
		res.Forecast = append(res.Forecast, ensemble)
		res.Upper = append(res.Upper, ensemble+sd)
		res.Lower = append(res.Lower, math.Max(0, ensemble-sd))
	}
	return res
}

func emptyForecast() models.ForecastResult {
	return models.ForecastResult{
		Dates:    []time.Time{},
		Actual:   []float64{},
		Forecast: []float64{},
		Upper:    []float64{},
		Lower:    []float64{},
		WMA:      []float64{},
		Linear:   []float64{},
	}
}
