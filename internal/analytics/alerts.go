package analytics

import (
	"fmt"
	"time"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

// Alert codes.
const (
	AlertVaccineOverdue  = "vaccine_overdue"
	AlertVaccineUpcoming = "vaccine_upcoming"
	AlertLowFeedStock    = "low_feed_stock"
	AlertHighMortality   = "high_mortality"
	AlertActiveOutbreak  = "active_outbreak"
)

// Alerts scans the dataset for conditions farm staff must act on. Alerts follow the
// order of the underlying records: vaccines, feed stock, mortality, then outbreaks.
func Alerts(ds *models.FarmDataset, ref time.Time) []models.Alert {
	settings := ds.Settings.WithDefaults()
	today := day(ref)
	soon := today.AddDate(0, 0, settings.AlertDaysBefore)

	alerts := []models.Alert{}
	for _, v := range ds.Vaccines {
		if !v.IsPending() {
			continue
		}
		scheduled := day(v.ScheduledDate)
		switch {
		case scheduled.Before(today):
			alerts = append(alerts, models.Alert{
				Type:    models.AlertDanger,
				Code:    AlertVaccineOverdue,
				Message: fmt.Sprintf("Vaccine overdue: %s (flock %s, due %s)", v.Name, v.FlockID, scheduled.Format(time.DateOnly)),
			})
		case !scheduled.After(soon):
			alerts = append(alerts, models.Alert{
				Type:    models.AlertWarning,
				Code:    AlertVaccineUpcoming,
				Message: fmt.Sprintf("Vaccine upcoming: %s (flock %s, due %s)", v.Name, v.FlockID, scheduled.Format(time.DateOnly)),
			})
		}
	}

	if stock := FeedStock(ds); stock < settings.MinFeedStock {
		alerts = append(alerts, models.Alert{
			Type:    models.AlertWarning,
			Code:    AlertLowFeedStock,
			Message: fmt.Sprintf("Low feed stock: %.1f kg left (minimum %.1f kg)", stock, settings.MinFeedStock),
		})
	}

	if pct := MortalityPct(ds); pct > settings.MaxMortality {
		alerts = append(alerts, models.Alert{
			Type:    models.AlertDanger,
			Code:    AlertHighMortality,
			Message: fmt.Sprintf("High mortality: %.1f%% (limit %.1f%%)", pct, settings.MaxMortality),
		})
	}

	for _, o := range ds.Outbreaks {
		if !o.IsActive() {
			continue
		}
		alerts = append(alerts, models.Alert{
			Type:    models.AlertDanger,
			Code:    AlertActiveOutbreak,
			Message: fmt.Sprintf("Active outbreak: %s (flock %s)", o.Disease, o.FlockID),
		})
	}

	return alerts
}
