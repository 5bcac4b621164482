package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

// FormatKPIs renders a KPI snapshot as a short WhatsApp message.
func FormatKPIs(kpi models.KpiSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "KPIs %s\n", kpi.Date.Format(time.DateOnly))
	fmt.Fprintf(&b, "Hens: %d | Eggs today: %d | Hen-day: %.1f%%\n", kpi.ActiveHens, kpi.EggsToday, kpi.HenDay)
	fmt.Fprintf(&b, "FCR: %.2f | Mortality: %.1f%% | Cost/egg: %.2f\n", kpi.FCR, kpi.Mortality, kpi.CostPerEgg)
	fmt.Fprintf(&b, "Net income (month): %.2f | Feed stock: %.1f kg\n", kpi.NetIncome, kpi.FeedStock)
	fmt.Fprintf(&b, "Flocks: %d | Active outbreaks: %d", kpi.TotalFlocks, kpi.ActiveOutbreaks)
	return b.String()
}

// FormatRiskSummary renders only the headline of a risk result.
func FormatRiskSummary(res models.RiskResult) string {
	level := "LOW"
	if res.Classification == 1 {
		level = "HIGH"
	}
	return fmt.Sprintf("Outbreak risk: %.1f%% (%s)", res.Probability*100, level)
}

// FormatRisk renders the risk headline, factor values and recommendations.
func FormatRisk(res models.RiskResult) string {
	var b strings.Builder
	b.WriteString(FormatRiskSummary(res))
	for _, f := range res.Factors {
		fmt.Fprintf(&b, "\n- %s: %.2f (weight %.2f)", f.Name, f.Value, f.Weight)
	}
	if len(res.Recommendations) > 0 {
		b.WriteString("\nRecommendations:")
		for _, r := range res.Recommendations {
			fmt.Fprintf(&b, "\n[%s] %s", r.Priority, r.Message)
		}
	}
	return b.String()
}

// FormatForecast renders one line per forecast day with its confidence band.
func FormatForecast(f models.ForecastResult) string {
	if f.Empty() {
		return "Forecast: not enough production history yet (7 days needed)."
	}
	var b strings.Builder
	b.WriteString("Egg forecast:")
	for i, d := range f.Dates {
		fmt.Fprintf(&b, "\n%s: %.0f (%.0f-%.0f)", d.Format(time.DateOnly), f.Forecast[i], f.Lower[i], f.Upper[i])
	}
	return b.String()
}

// FormatAlerts renders alerts one per line.
func FormatAlerts(alerts []models.Alert) string {
	if len(alerts) == 0 {
		return "No alerts."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Alerts (%d):", len(alerts))
	for _, a := range alerts {
		fmt.Fprintf(&b, "\n[%s] %s", a.Type, a.Message)
	}
	return b.String()
}

// FormatHealth renders one flock's health breakdown.
func FormatHealth(h models.HealthBreakdown) string {
	return fmt.Sprintf("Flock %s health: %d/100\nMortality %.0f | Productivity %.0f | Feed %.0f | Outbreaks %.0f",
		h.FlockID, h.Score, h.Mortality, h.Productivity, h.FeedEfficiency, h.Outbreaks)
}

// FormatHealthTable renders one line per flock.
func FormatHealthTable(rows []models.HealthBreakdown) string {
	if len(rows) == 0 {
		return "Flock health: no active flocks."
	}
	var b strings.Builder
	b.WriteString("Flock health:")
	for _, h := range rows {
		fmt.Fprintf(&b, "\n%s: %d/100", h.FlockID, h.Score)
	}
	return b.String()
}

// FormatHistory renders stored snapshots oldest first.
func FormatHistory(snapshots []models.KpiSnapshot) string {
	var b strings.Builder
	b.WriteString("Last days:")
	for i := len(snapshots) - 1; i >= 0; i-- {
		s := snapshots[i]
		fmt.Fprintf(&b, "\n%s: %d eggs, hen-day %.1f%%, FCR %.2f", s.Date.Format(time.DateOnly), s.EggsToday, s.HenDay, s.FCR)
	}
	return b.String()
}

func joinSections(sections ...string) string {
	return strings.Join(sections, "\n\n")
}
