package analytics

import (
	"math"
	"slices"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

// EggMassKg is the average mass of one egg used for feed conversion.
const EggMassKg = 0.06

// dailyTotal is the sum of eggs and deaths recorded on one calendar day, across flocks.
type dailyTotal struct {
	Date   time.Time
	Eggs   float64
	Deaths int
}

// day truncates t to midnight UTC of its calendar date.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// withinDays reports whether t falls on one of the n calendar days ending at ref (inclusive).
func withinDays(t, ref time.Time, n int) bool {
	d, end := day(t), day(ref)
	return d.After(end.AddDate(0, 0, -n)) && !d.After(end)
}

// dailyEggTotals sums production per calendar day, oldest first.
func dailyEggTotals(records []models.ProductionRecord) []dailyTotal {
	byDay := make(map[time.Time]*dailyTotal)
	for _, r := range records {
		key := day(r.Date)
		t, ok := byDay[key]
		if !ok {
			t = &dailyTotal{Date: key}
			byDay[key] = t
		}
		t.Eggs += float64(r.EggsCollected)
		t.Deaths += r.Deaths
	}

	totals := make([]dailyTotal, 0, len(byDay))
	for _, t := range byDay {
		totals = append(totals, *t)
	}
	slices.SortFunc(totals, func(a, b dailyTotal) int { return a.Date.Compare(b.Date) })
	return totals
}

// eggSeries extracts the egg totals of a daily series.
func eggSeries(totals []dailyTotal) []float64 {
	values := make([]float64, len(totals))
	for i, t := range totals {
		values[i] = t.Eggs
	}
	return values
}

// fitLine is an ordinary least squares fit of ys against their index 0..n-1.
// A single point yields a flat line through it.
func fitLine(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	if len(ys) == 0 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = sumY/n - slope*sumX/n
	return slope, intercept
}

// populationStdDev returns 0 for empty input rather than an error.
func populationStdDev(xs []float64) float64 {
	sd, err := stats.StandardDeviationPopulation(xs)
	if err != nil || math.IsNaN(sd) {
		return 0
	}
	return sd
}

func mean(xs []float64) float64 {
	m, err := stats.Mean(xs)
	if err != nil {
		return 0
	}
	return m
}

func sum(xs []float64) float64 {
	s, err := stats.Sum(xs)
	if err != nil {
		return 0
	}
	return s
}

// ratio divides and maps a zero denominator to 0.
func ratio(num, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return num / denom
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
