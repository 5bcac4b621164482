// Package analytics turns a farm dataset snapshot into decision-support output:
// production forecasts, outbreak risk, flock health scores, KPI snapshots and alerts.
//
// Every function is a pure computation over a *models.FarmDataset that the caller
// owns. Nothing here reads the wall clock; functions that need "today" take a
// reference date. Calendar comparisons ignore the time of day.
package analytics
