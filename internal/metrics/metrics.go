// Package metrics exposes farm analytics as Prometheus gauges.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

const namespace = "flockwatch"

// Recorder owns a private registry with the farm gauges. A nil *Recorder is a no-op.
type Recorder struct {
	registry *prometheus.Registry

	activeHens      prometheus.Gauge
	eggsToday       prometheus.Gauge
	henDay          prometheus.Gauge
	fcr             prometheus.Gauge
	mortality       prometheus.Gauge
	costPerEgg      prometheus.Gauge
	feedStock       prometheus.Gauge
	activeOutbreaks prometheus.Gauge
	riskProbability prometheus.Gauge
	riskFactor      *prometheus.GaugeVec
	flockHealth     *prometheus.GaugeVec
	alerts          *prometheus.GaugeVec
	pestScore       prometheus.Gauge
	datasetLoads    *prometheus.CounterVec
}

// New registers every gauge plus the Go runtime collectors.
func New() *Recorder {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}

	r := &Recorder{
		registry:        prometheus.NewRegistry(),
		activeHens:      gauge("active_hens", "Live birds in non-culled flocks."),
		eggsToday:       gauge("eggs_today", "Eggs collected on the reference day."),
		henDay:          gauge("hen_day_percent", "Eggs today per live hen, in percent."),
		fcr:             gauge("feed_conversion_ratio", "Feed kg per egg kg over the trailing 30 days."),
		mortality:       gauge("mortality_percent", "Cumulative deaths over initial head count, in percent."),
		costPerEgg:      gauge("cost_per_egg", "All-time expenses divided by all-time eggs."),
		feedStock:       gauge("feed_stock_kg", "Feed purchased minus feed consumed."),
		activeOutbreaks: gauge("active_outbreaks", "Outbreaks currently marked active."),
		riskProbability: gauge("outbreak_risk_probability", "Logistic outbreak risk probability."),
		riskFactor: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "outbreak_risk_factor", Help: "Normalised outbreak risk factor value.",
		}, []string{"factor"}),
		flockHealth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "flock_health_score", Help: "Composite flock health score, 0 to 100.",
		}, []string{"flock"}),
		alerts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "alerts", Help: "Open alerts by severity and code.",
		}, []string{"type", "code"}),
		pestScore: gauge("pest_score", "Biosecurity pest pressure score, 0 to 100."),
		datasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "dataset_loads_total", Help: "Workbook snapshot loads by result.",
		}, []string{"result"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.activeHens, r.eggsToday, r.henDay, r.fcr, r.mortality, r.costPerEgg, r.feedStock,
		r.activeOutbreaks, r.riskProbability, r.riskFactor, r.flockHealth, r.alerts, r.pestScore,
		r.datasetLoads,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveKPIs publishes a KPI snapshot.
func (r *Recorder) ObserveKPIs(kpi models.KpiSnapshot) {
	if r == nil {
		return
	}
	r.activeHens.Set(float64(kpi.ActiveHens))
	r.eggsToday.Set(float64(kpi.EggsToday))
	r.henDay.Set(kpi.HenDay)
	r.fcr.Set(kpi.FCR)
	r.mortality.Set(kpi.Mortality)
	r.costPerEgg.Set(kpi.CostPerEgg)
	r.feedStock.Set(kpi.FeedStock)
	r.activeOutbreaks.Set(float64(kpi.ActiveOutbreaks))
}

// ObserveRisk publishes the risk probability and each factor.
func (r *Recorder) ObserveRisk(res models.RiskResult) {
	if r == nil {
		return
	}
	r.riskProbability.Set(res.Probability)
	for _, f := range res.Factors {
		r.riskFactor.WithLabelValues(f.Name).Set(f.Value)
	}
}

// ObserveAlerts replaces the alert gauges with the current counts.
func (r *Recorder) ObserveAlerts(alerts []models.Alert) {
	if r == nil {
		return
	}
	r.alerts.Reset()
	for _, a := range alerts {
		r.alerts.WithLabelValues(string(a.Type), a.Code).Inc()
	}
}

// ObserveFlockHealth publishes one flock's health score.
func (r *Recorder) ObserveFlockHealth(flockID string, score int) {
	if r == nil {
		return
	}
	r.flockHealth.WithLabelValues(flockID).Set(float64(score))
}

// ObservePestScore publishes the biosecurity pest score.
func (r *Recorder) ObservePestScore(score int) {
	if r == nil {
		return
	}
	r.pestScore.Set(float64(score))
}

// ObserveLoad counts a dataset load attempt.
func (r *Recorder) ObserveLoad(err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.datasetLoads.WithLabelValues(result).Inc()
}
