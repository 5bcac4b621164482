package analytics

import (
	"time"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

const kpiWindowDays = 30

// ComputeKPIs rolls up the operational KPI set for ref.
//
// Hen-day uses today's eggs against live birds; FCR uses the trailing 30 days. Mortality
// and cost per egg are all-time figures and net income covers ref's calendar month.
// Any ratio with a zero denominator is 0.
func ComputeKPIs(ds *models.FarmDataset, ref time.Time) models.KpiSnapshot {
	today := day(ref)
	hens := ActiveHeadCountTotal(ds)

	eggsToday := 0
	var eggsAll float64
	for _, p := range ds.Production {
		if day(p.Date).Equal(today) {
			eggsToday += p.EggsCollected
		}
		eggsAll += float64(p.EggsCollected)
	}

	expenses := make([]float64, 0, len(ds.Expenses))
	var monthExpenses float64
	for _, e := range ds.Expenses {
		expenses = append(expenses, e.Amount)
		if sameMonth(e.Date, today) {
			monthExpenses += e.Amount
		}
	}

	var monthIncome float64
	for _, i := range ds.Income {
		if sameMonth(i.Date, today) {
			monthIncome += i.Value()
		}
	}

	activeFlocks := 0
	for _, f := range ds.Flocks {
		if f.Status != models.FlockStatusDescarte {
			activeFlocks++
		}
	}

	return models.KpiSnapshot{
		Date:            today,
		ActiveHens:      hens,
		EggsToday:       eggsToday,
		HenDay:          roundTo(ratio(float64(eggsToday), float64(hens))*100, 1),
		FCR:             roundTo(trailingFCR(ds, ref, kpiWindowDays), 2),
		Mortality:       roundTo(MortalityPct(ds), 1),
		CostPerEgg:      roundTo(ratio(sum(expenses), eggsAll), 2),
		NetIncome:       monthIncome - monthExpenses,
		FeedStock:       roundTo(FeedStock(ds), 1),
		TotalFlocks:     activeFlocks,
		ActiveOutbreaks: ActiveOutbreakCount(ds),
	}
}

// MortalityPct is cumulative production deaths over cumulative initial head count, in percent.
func MortalityPct(ds *models.FarmDataset) float64 {
	deaths, initial := 0, 0
	for _, p := range ds.Production {
		deaths += p.Deaths
	}
	for _, f := range ds.Flocks {
		initial += f.Count
	}
	return ratio(float64(deaths), float64(initial)) * 100
}

// FeedStock is all feed purchased minus all feed consumed, in kg.
func FeedStock(ds *models.FarmDataset) float64 {
	var stock float64
	for _, p := range ds.FeedPurchases {
		stock += p.QuantityKg
	}
	for _, c := range ds.FeedConsumption {
		stock -= c.QuantityKg
	}
	return stock
}

func sameMonth(t, ref time.Time) bool {
	if t.IsZero() {
		return false
	}
	d := day(t)
	return d.Year() == ref.Year() && d.Month() == ref.Month()
}
