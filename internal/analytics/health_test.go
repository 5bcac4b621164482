package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

func TestHealthScore(t *testing.T) {
	flock := models.Flock{ID: "f1", Count: 100, Status: models.FlockStatusProduccion}
	laying := dailyProduction("f1", 7, constant(90), 0)

	tests := []struct {
		name string
		ds   *models.FarmDataset
		want int
	}{
		{
			name: "unknown flock",
			ds:   &models.FarmDataset{Flocks: []models.Flock{flock}},
			want: -1,
		},
		{
			name: "no records uses defaults",
			// 100*0.3 + 50*0.3 + 80*0.2 + 100*0.2
			ds:   &models.FarmDataset{Flocks: []models.Flock{flock}},
			want: 81,
		},
		{
			name: "healthy layer flock",
			// productivity capped at 100, feed default 80
			ds:   &models.FarmDataset{Flocks: []models.Flock{flock}, Production: laying},
			want: 96,
		},
		{
			name: "one active outbreak",
			ds: &models.FarmDataset{
				Flocks:     []models.Flock{flock},
				Production: laying,
				Outbreaks:  []models.Outbreak{{FlockID: "f1", Status: models.OutbreakActive}},
			},
			want: 84,
		},
		{
			name: "two active outbreaks",
			ds: &models.FarmDataset{
				Flocks:     []models.Flock{flock},
				Production: laying,
				Outbreaks: []models.Outbreak{
					{FlockID: "f1", Status: models.OutbreakActive, Disease: "Newcastle"},
					{FlockID: "f1", Status: models.OutbreakActive, Disease: "Gumboro"},
					{FlockID: "f2", Status: models.OutbreakActive},
				},
			},
			want: 76,
		},
		{
			name: "efficient feed",
			// 10 kg feed vs 5.4 kg eggs a day → FCR 1.85
			ds: &models.FarmDataset{
				Flocks:          []models.Flock{flock},
				Production:      laying,
				FeedConsumption: []models.FeedConsumption{{Date: refDate, FlockID: "f1", QuantityKg: 10}},
			},
			want: 100,
		},
		{
			name: "wasteful feed",
			// 30 kg feed vs 5.4 kg eggs → FCR 5.6 → 20
			ds: &models.FarmDataset{
				Flocks:          []models.Flock{flock},
				Production:      laying,
				FeedConsumption: []models.FeedConsumption{{Date: refDate, FlockID: "f1", QuantityKg: 30}},
			},
			want: 84,
		},
		{
			name: "mortality of five percent",
			// mortality 50, productivity 90/95*125 → 100
			ds: &models.FarmDataset{
				Flocks:     []models.Flock{flock},
				Production: append(dailyProduction("f1", 7, constant(90), 0), models.ProductionRecord{Date: daysAgo(20), FlockID: "f1", Deaths: 5}),
			},
			want: 81,
		},
		{
			name: "every bird dead",
			ds: &models.FarmDataset{
				Flocks:     []models.Flock{{ID: "f1", Count: 10}},
				Production: []models.ProductionRecord{{Date: refDate, FlockID: "f1", EggsCollected: 3, Deaths: 100}},
			},
			want: 51,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id := "f1"
			want := tc.want
			if want < 0 {
				id, want = "missing", 0
			}
			got := HealthScore(tc.ds, id)
			assert.Equal(t, want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestFlockHealth_Breakdown(t *testing.T) {
	ds := &models.FarmDataset{
		Flocks: []models.Flock{{ID: "f1", Count: 200}},
		// only the seven newest records count: avg 100 eggs on 200 birds → 62.5
		Production: append(
			dailyProduction("f1", 7, constant(100), 0),
			models.ProductionRecord{Date: daysAgo(30), FlockID: "f1", EggsCollected: 5000},
		),
		FeedConsumption: []models.FeedConsumption{
			{Date: daysAgo(1), FlockID: "f1", QuantityKg: 14},
			{Date: daysAgo(0), FlockID: "f1", QuantityKg: 16},
			{Date: daysAgo(0), FlockID: "other", QuantityKg: 900},
		},
	}

	b, ok := FlockHealth(ds, "f1")
	require.True(t, ok)
	assert.Equal(t, 100.0, b.Mortality)
	assert.InDelta(t, 62.5, b.Productivity, 1e-9)
	// 15 kg / 6 kg → FCR 2.5 → 60
	assert.Equal(t, 60.0, b.FeedEfficiency)
	assert.Equal(t, 100.0, b.Outbreaks)
	assert.Equal(t, 81, b.Score) // 30 + 18.75 + 12 + 20 = 80.75

	_, ok = FlockHealth(ds, "nope")
	assert.False(t, ok)
}

func TestFCRScore(t *testing.T) {
	tests := []struct {
		fcr  float64
		want float64
	}{
		{1.5, 100}, {2, 80}, {2.49, 80}, {2.5, 60}, {3.9, 40}, {4, 20}, {99, 20},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, fcrScore(tc.fcr), "fcr %.2f", tc.fcr)
	}
}
