package models

import "time"

// ForecastResult is a short-horizon egg production forecast with a confidence band.
// All series are empty when there is not enough history.
type ForecastResult struct {
	Dates    []time.Time `json:"dates"`
	Actual   []float64   `json:"actual"`
	Forecast []float64   `json:"forecast"`
	Upper    []float64   `json:"upper"`
	Lower    []float64   `json:"lower"`
	WMA      []float64   `json:"wma"`
	Linear   []float64   `json:"linear"`
}

// Empty reports whether the forecast could not be produced.
func (f ForecastResult) Empty() bool { return len(f.Forecast) == 0 }

// RiskFactor is one weighted input to the outbreak risk model. Value is in [0,1].
type RiskFactor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
}

// Recommendation is an action suggested by the risk classifier.
type Recommendation struct {
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// RiskResult is the output of the outbreak risk classifier.
type RiskResult struct {
	Probability     float64          `json:"probability"`
	Classification  int              `json:"classification"`
	Factors         []RiskFactor     `json:"factors"`
	Recommendations []Recommendation `json:"recommendations"`
}

// HealthBreakdown exposes the sub-scores behind a flock health score.
type HealthBreakdown struct {
	FlockID        string  `json:"flock_id"`
	Mortality      float64 `json:"mortality"`
	Productivity   float64 `json:"productivity"`
	FeedEfficiency float64 `json:"feed_efficiency"`
	Outbreaks      float64 `json:"outbreaks"`
	Score          int     `json:"score"`
}

// KpiSnapshot is the rolled-up operational KPI set for one day. It is also the
// document stored in MongoDB by the daily job.
type KpiSnapshot struct {
	Date            time.Time `bson:"date" json:"date"`
	ActiveHens      int       `bson:"active_hens" json:"active_hens"`
	EggsToday       int       `bson:"eggs_today" json:"eggs_today"`
	HenDay          float64   `bson:"hen_day" json:"hen_day"`
	FCR             float64   `bson:"fcr" json:"fcr"`
	Mortality       float64   `bson:"mortality" json:"mortality"`
	CostPerEgg      float64   `bson:"cost_per_egg" json:"cost_per_egg"`
	NetIncome       float64   `bson:"net_income" json:"net_income"`
	FeedStock       float64   `bson:"feed_stock" json:"feed_stock"`
	TotalFlocks     int       `bson:"total_flocks" json:"total_flocks"`
	ActiveOutbreaks int       `bson:"active_outbreaks" json:"active_outbreaks"`
	CreatedAt       time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

// AlertType is the visual severity of an alert.
type AlertType string

const (
	AlertDanger  AlertType = "danger"
	AlertWarning AlertType = "warning"
)

// Alert is a human readable warning produced by the alert scan.
type Alert struct {
	Type    AlertType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"msg"`
}

// LifecycleStage is an age band in a laying hen's life.
type LifecycleStage struct {
	Stage     string      `json:"stage"`
	WeekStart int         `json:"week_start"`
	WeekEnd   int         `json:"week_end"` // exclusive, -1 for open ended
	Status    FlockStatus `json:"status"`
}

// FlockStage is a flock's age and lifecycle band at a reference date.
type FlockStage struct {
	FlockID  string         `json:"flock_id"`
	AgeDays  int            `json:"age_days"`
	AgeWeeks int            `json:"age_weeks"`
	Stage    LifecycleStage `json:"stage"`
}
