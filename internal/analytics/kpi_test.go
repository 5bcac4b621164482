package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

func TestComputeKPIs(t *testing.T) {
	t.Run("mortality is cumulative over initial counts", func(t *testing.T) {
		ds := &models.FarmDataset{
			Flocks:     []models.Flock{{ID: "f1", Count: 1000}},
			Production: []models.ProductionRecord{{Date: mustDate("2024-01-01"), FlockID: "f1", Deaths: 50}},
		}
		assert.Equal(t, 5.0, ComputeKPIs(ds, refDate).Mortality)
	})

	t.Run("cost per egg", func(t *testing.T) {
		ds := &models.FarmDataset{
			Production: []models.ProductionRecord{{Date: daysAgo(100), EggsCollected: 300}, {Date: refDate, EggsCollected: 200}},
			Expenses:   []models.Expense{{Date: daysAgo(200), Amount: 400}, {Date: refDate, Amount: 600}},
		}
		assert.Equal(t, 2.0, ComputeKPIs(ds, refDate).CostPerEgg)
	})

	t.Run("cost per egg without eggs", func(t *testing.T) {
		ds := &models.FarmDataset{Expenses: []models.Expense{{Date: refDate, Amount: 1000}}}
		assert.Zero(t, ComputeKPIs(ds, refDate).CostPerEgg)
	})

	t.Run("feed stock", func(t *testing.T) {
		ds := &models.FarmDataset{
			FeedPurchases:   []models.FeedPurchase{{QuantityKg: 1000}, {QuantityKg: 500}},
			FeedConsumption: []models.FeedConsumption{{QuantityKg: 300}, {QuantityKg: 200}},
		}
		assert.Equal(t, 1000.0, ComputeKPIs(ds, refDate).FeedStock)
	})

	t.Run("empty farm has only zeros", func(t *testing.T) {
		kpi := ComputeKPIs(&models.FarmDataset{}, refDate)
		assert.Equal(t, models.KpiSnapshot{Date: refDate}, kpi)
	})
}

func TestComputeKPIs_FullSnapshot(t *testing.T) {
	ds := &models.FarmDataset{
		Flocks: []models.Flock{
			{ID: "f1", Count: 100, Status: models.FlockStatusProduccion},
			{ID: "f2", Count: 50, Status: models.FlockStatusRecria},
			{ID: "old", Count: 50, Status: models.FlockStatusDescarte},
		},
		Production: []models.ProductionRecord{
			{Date: refDate, FlockID: "f1", EggsCollected: 70},
			{Date: refDate, FlockID: "f2", EggsCollected: 5, Deaths: 2},
			{Date: daysAgo(10), FlockID: "f1", EggsCollected: 425},
			{Date: daysAgo(45), FlockID: "f1", EggsCollected: 1000, Deaths: 8},
		},
		FeedPurchases: []models.FeedPurchase{{Date: daysAgo(40), QuantityKg: 200}},
		FeedConsumption: []models.FeedConsumption{
			{Date: daysAgo(1), FlockID: "f1", QuantityKg: 45},
			{Date: daysAgo(60), FlockID: "f1", QuantityKg: 100},
		},
		Outbreaks: []models.Outbreak{
			{FlockID: "f2", Status: models.OutbreakActive},
			{FlockID: "f1", Status: models.OutbreakControlled},
		},
		Expenses: []models.Expense{
			{Date: mustDate("2026-03-02"), Amount: 30},
			{Date: mustDate("2026-02-27"), Amount: 100},
		},
		Income: []models.Income{
			{Date: mustDate("2026-03-10"), Quantity: 10, UnitPrice: 2},
			{Date: mustDate("2026-03-11"), Amount: 50},
			{Date: mustDate("2025-03-11"), Amount: 999},
		},
	}

	kpi := ComputeKPIs(ds, refDate)

	assert.Equal(t, refDate, kpi.Date)
	// f1: 100-8, f2: 50-2, culled flock excluded
	assert.Equal(t, 140, kpi.ActiveHens)
	assert.Equal(t, 75, kpi.EggsToday)
	assert.Equal(t, 53.6, kpi.HenDay) // 75/140
	// 45 kg over 500 eggs * 0.06 kg
	assert.Equal(t, 1.5, kpi.FCR)
	assert.Equal(t, 5.0, kpi.Mortality) // 10 deaths / 200 birds
	assert.Equal(t, 0.09, kpi.CostPerEgg)
	assert.Equal(t, 40.0, kpi.NetIncome)
	assert.Equal(t, 55.0, kpi.FeedStock)
	assert.Equal(t, 2, kpi.TotalFlocks)
	assert.Equal(t, 1, kpi.ActiveOutbreaks)
}
