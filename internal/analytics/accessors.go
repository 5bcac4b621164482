package analytics

import (
	"slices"
	"time"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

// Lifecycle stage names.
const (
	StagePollito      = "pollito"
	StageCria         = "cria"
	StageRecria       = "recria"
	StagePrePostura   = "pre_postura"
	StagePosturaPico  = "postura_pico"
	StagePosturaMedia = "postura_media"
	StagePosturaBaja  = "postura_baja"
	StageDescarte     = "descarte"
)

// lifecycle is ordered by age; the last band is open ended.
var lifecycle = []models.LifecycleStage{
	{Stage: StagePollito, WeekStart: 0, WeekEnd: 4, Status: models.FlockStatusCria},
	{Stage: StageCria, WeekStart: 4, WeekEnd: 8, Status: models.FlockStatusCria},
	{Stage: StageRecria, WeekStart: 8, WeekEnd: 18, Status: models.FlockStatusRecria},
	{Stage: StagePrePostura, WeekStart: 18, WeekEnd: 20, Status: models.FlockStatusRecria},
	{Stage: StagePosturaPico, WeekStart: 20, WeekEnd: 42, Status: models.FlockStatusProduccion},
	{Stage: StagePosturaMedia, WeekStart: 42, WeekEnd: 62, Status: models.FlockStatusProduccion},
	{Stage: StagePosturaBaja, WeekStart: 62, WeekEnd: 80, Status: models.FlockStatusProduccion},
	{Stage: StageDescarte, WeekStart: 80, WeekEnd: -1, Status: models.FlockStatusDescarte},
}

// Lifecycle returns a copy of the lifecycle band table.
func Lifecycle() []models.LifecycleStage {
	return slices.Clone(lifecycle)
}

// Age is the age of a flock at a reference date.
type Age struct {
	Days  int `json:"days"`
	Weeks int `json:"weeks"`
}

// ActiveHeadCount returns the live birds of a flock: initial count minus production and
// outbreak deaths, floored at 0. Unknown flocks have no birds.
func ActiveHeadCount(ds *models.FarmDataset, flockID string) int {
	f, ok := ds.FindFlock(flockID)
	if !ok {
		return 0
	}
	return activeHeads(ds, f)
}

// ActiveHeadCountTotal sums the active head count of every flock not yet culled.
func ActiveHeadCountTotal(ds *models.FarmDataset) int {
	total := 0
	for _, f := range ds.Flocks {
		if f.Status == models.FlockStatusDescarte {
			continue
		}
		total += activeHeads(ds, f)
	}
	return total
}

func activeHeads(ds *models.FarmDataset, f models.Flock) int {
	deaths := productionDeaths(ds, f.ID)
	for _, o := range ds.Outbreaks {
		if o.FlockID == f.ID {
			deaths += o.Deaths
		}
	}
	return max(0, f.Count-deaths)
}

func productionDeaths(ds *models.FarmDataset, flockID string) int {
	deaths := 0
	for _, p := range ds.Production {
		if p.FlockID == flockID {
			deaths += p.Deaths
		}
	}
	return deaths
}

// FlockAge returns the age of the flock at ref. Flocks without a birth date, or born
// after ref, are zero days old.
func FlockAge(f models.Flock, ref time.Time) Age {
	if f.BirthDate == nil {
		return Age{}
	}
	days := int(day(ref).Sub(day(*f.BirthDate)).Hours() / 24)
	if days < 0 {
		return Age{}
	}
	return Age{Days: days, Weeks: days / 7}
}

// LifecycleStageOf maps the flock's age in weeks to its lifecycle band.
func LifecycleStageOf(f models.Flock, ref time.Time) models.LifecycleStage {
	weeks := FlockAge(f, ref).Weeks
	for _, s := range lifecycle {
		if weeks >= s.WeekStart && (s.WeekEnd < 0 || weeks < s.WeekEnd) {
			return s
		}
	}
	return lifecycle[len(lifecycle)-1]
}
