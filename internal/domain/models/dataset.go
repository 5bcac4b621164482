package models

// Fallback alert thresholds applied when Settings fields are left at zero.
const (
	DefaultMinFeedStock    = 50.0
	DefaultMaxMortality    = 5.0
	DefaultAlertDaysBefore = 3
)

// Settings holds the alert thresholds configured for the farm.
type Settings struct {
	MinFeedStock    float64 `json:"min_feed_stock"`    // kg
	MaxMortality    float64 `json:"max_mortality"`     // percent
	AlertDaysBefore int     `json:"alert_days_before"` // days
}

// WithDefaults returns a copy with zero thresholds replaced by their defaults.
func (s Settings) WithDefaults() Settings {
	if s.MinFeedStock == 0 {
		s.MinFeedStock = DefaultMinFeedStock
	}
	if s.MaxMortality == 0 {
		s.MaxMortality = DefaultMaxMortality
	}
	if s.AlertDaysBefore == 0 {
		s.AlertDaysBefore = DefaultAlertDaysBefore
	}
	return s
}

// FarmDataset is a point-in-time snapshot of every record kept for the farm.
// Analytics treat it as read-only.
type FarmDataset struct {
	Flocks          []Flock            `json:"flocks"`
	Production      []ProductionRecord `json:"production"`
	FeedPurchases   []FeedPurchase     `json:"feed_purchases"`
	FeedConsumption []FeedConsumption  `json:"feed_consumption"`
	Outbreaks       []Outbreak         `json:"outbreaks"`
	Vaccines        []Vaccine          `json:"vaccines"`
	StressEvents    []StressEvent      `json:"stress_events"`
	Weather         []WeatherSample    `json:"weather"`
	Expenses        []Expense          `json:"expenses"`
	Income          []Income           `json:"income"`
	Biosecurity     Biosecurity        `json:"biosecurity"`
	Settings        Settings           `json:"settings"`
}

// FindFlock returns the flock with the given id.
func (d *FarmDataset) FindFlock(id string) (Flock, bool) {
	for _, f := range d.Flocks {
		if f.ID == id {
			return f, true
		}
	}
	return Flock{}, false
}
