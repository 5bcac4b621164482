package analytics

import (
	"time"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

var refDate = mustDate("2026-03-15")

func mustDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func daysAgo(n int) time.Time {
	return refDate.AddDate(0, 0, -n)
}

func ptr[T any](v T) *T { return &v }

// dailyProduction builds one record per day for the last n days, oldest first.
func dailyProduction(flockID string, n int, eggs func(i int) int, deaths int) []models.ProductionRecord {
	records := make([]models.ProductionRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.ProductionRecord{
			Date:          daysAgo(n - 1 - i),
			FlockID:       flockID,
			EggsCollected: eggs(i),
			Deaths:        deaths,
		})
	}
	return records
}

func constant(v int) func(int) int { return func(int) int { return v } }
