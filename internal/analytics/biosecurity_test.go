package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

func TestPestScore(t *testing.T) {
	tests := []struct {
		name string
		bio  models.Biosecurity
		want int
	}{
		{"clean", models.Biosecurity{}, 0},
		{
			"two unresolved sightings",
			models.Biosecurity{PestSightings: []models.PestSighting{{Severity: 3}, {Severity: 2}}},
			30,
		},
		{
			"resolved sightings do not count",
			models.Biosecurity{PestSightings: []models.PestSighting{{Severity: 5, Resolved: true}}},
			0,
		},
		{
			"missing severity counts as one",
			models.Biosecurity{PestSightings: []models.PestSighting{{}}},
			12,
		},
		{
			"red zone",
			models.Biosecurity{Zones: []models.BioZone{{Name: "A", RiskLevel: "red"}, {Name: "B", RiskLevel: "green"}}},
			10,
		},
		{
			"sightings cap at 40 and severity at 20",
			models.Biosecurity{PestSightings: []models.PestSighting{{Severity: 5}, {Severity: 5}, {Severity: 5}, {Severity: 5}, {Severity: 5}}},
			60,
		},
		{
			"total caps at 100",
			models.Biosecurity{
				PestSightings: []models.PestSighting{{Severity: 9}, {Severity: 9}, {Severity: 9}, {Severity: 9}},
				Zones:         []models.BioZone{{RiskLevel: "red"}, {RiskLevel: "red"}, {RiskLevel: "red"}, {RiskLevel: "red"}, {RiskLevel: "red"}},
			},
			100,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PestScore(&models.FarmDataset{Biosecurity: tc.bio}))
		})
	}
}
