package analytics

import "github.com/mamadbah2/flockwatch/internal/domain/models"

// PestScore rates biosecurity pressure from 0 (clean) to 100. Unresolved sightings add
// 10 each (max 40) plus twice their severity (max 20); each red zone adds 10.
func PestScore(ds *models.FarmDataset) int {
	unresolved, severity := 0, 0
	for _, p := range ds.Biosecurity.PestSightings {
		if p.Resolved {
			continue
		}
		unresolved++
		if p.Severity > 0 {
			severity += p.Severity
		} else {
			severity++
		}
	}

	redZones := 0
	for _, z := range ds.Biosecurity.Zones {
		if z.RiskLevel == "red" {
			redZones++
		}
	}

	score := min(40, unresolved*10) + min(20, severity*2) + redZones*10
	return min(100, score)
}
