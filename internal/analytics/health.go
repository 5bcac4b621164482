package analytics

import (
	"math"
	"slices"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

const (
	healthWindow = 7

	defaultProductivityScore = 50.0
	defaultFeedScore         = 80.0
	noEggsFCR                = 99.0
)

// HealthScore returns the 0-100 health score of a flock, or 0 for an unknown flock.
func HealthScore(ds *models.FarmDataset, flockID string) int {
	b, ok := FlockHealth(ds, flockID)
	if !ok {
		return 0
	}
	return b.Score
}

// FlockHealth blends mortality (30 %), productivity (30 %), feed efficiency (20 %) and
// outbreak status (20 %) into a rounded score. ok is false when the flock is unknown.
func FlockHealth(ds *models.FarmDataset, flockID string) (models.HealthBreakdown, bool) {
	f, ok := ds.FindFlock(flockID)
	if !ok {
		return models.HealthBreakdown{}, false
	}

	mortalityPct := ratio(float64(productionDeaths(ds, f.ID)), float64(f.Count)) * 100
	mortality := math.Max(0, 100-mortalityPct*10)

	hens := activeHeads(ds, f)
	recentEggs := latestEggs(ds.Production, f.ID, healthWindow)
	recentFeed := latestFeed(ds.FeedConsumption, f.ID, healthWindow)

	productivity := defaultProductivityScore
	if len(recentEggs) > 0 && hens > 0 {
		productivity = math.Min(100, mean(recentEggs)/float64(hens)*125)
	}

	feed := defaultFeedScore
	if len(recentFeed) > 0 && len(recentEggs) > 0 && hens > 0 {
		eggKg := mean(recentEggs) * EggMassKg
		fcr := noEggsFCR
		if eggKg > 0 {
			fcr = mean(recentFeed) / eggKg
		}
		feed = fcrScore(fcr)
	}

	outbreaks := 100.0
	switch active := activeOutbreaksFor(ds, f.ID); {
	case active == 1:
		outbreaks = 40
	case active >= 2:
		outbreaks = 0
	}

	score := int(math.Round(mortality*0.3 + productivity*0.3 + feed*0.2 + outbreaks*0.2))
	return models.HealthBreakdown{
		FlockID:        f.ID,
		Mortality:      mortality,
		Productivity:   productivity,
		FeedEfficiency: feed,
		Outbreaks:      outbreaks,
		Score:          min(100, max(0, score)),
	}, true
}

func fcrScore(fcr float64) float64 {
	switch {
	case fcr < 2:
		return 100
	case fcr < 2.5:
		return 80
	case fcr < 3:
		return 60
	case fcr < 4:
		return 40
	default:
		return 20
	}
}

func activeOutbreaksFor(ds *models.FarmDataset, flockID string) int {
	n := 0
	for _, o := range ds.Outbreaks {
		if o.FlockID == flockID && o.IsActive() {
			n++
		}
	}
	return n
}

// latestEggs returns egg counts of the n most recent production records of a flock.
func latestEggs(records []models.ProductionRecord, flockID string, n int) []float64 {
	var own []models.ProductionRecord
	for _, r := range records {
		if r.FlockID == flockID {
			own = append(own, r)
		}
	}
	slices.SortStableFunc(own, func(a, b models.ProductionRecord) int { return b.Date.Compare(a.Date) })

	eggs := make([]float64, 0, n)
	for _, r := range own[:min(n, len(own))] {
		eggs = append(eggs, float64(r.EggsCollected))
	}
	return eggs
}

// latestFeed returns quantities of the n most recent feed consumption records of a flock.
func latestFeed(records []models.FeedConsumption, flockID string, n int) []float64 {
	var own []models.FeedConsumption
	for _, r := range records {
		if r.FlockID == flockID {
			own = append(own, r)
		}
	}
	slices.SortStableFunc(own, func(a, b models.FeedConsumption) int { return b.Date.Compare(a.Date) })

	kg := make([]float64, 0, n)
	for _, r := range own[:min(n, len(own))] {
		kg = append(kg, r.QuantityKg)
	}
	return kg
}
