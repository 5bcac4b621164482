package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
	"github.com/mamadbah2/flockwatch/internal/service/reporting"
)

const maxForecastDays = 60

// AnalyticsService is the read side of the reporting service exposed over HTTP.
type AnalyticsService interface {
	Today() time.Time
	KPIs(ctx context.Context, ref time.Time) (models.KpiSnapshot, error)
	Risk(ctx context.Context, ref time.Time) (models.RiskResult, error)
	Forecast(ctx context.Context, days int) (models.ForecastResult, error)
	Alerts(ctx context.Context, ref time.Time) ([]models.Alert, error)
	FlockHealth(ctx context.Context, flockID string) (models.HealthBreakdown, error)
	FlockStage(ctx context.Context, flockID string, ref time.Time) (models.FlockStage, error)
	PestScore(ctx context.Context) (int, error)
}

// AnalyticsHandler serves the farm analytics as JSON.
type AnalyticsHandler struct {
	svc    AnalyticsService
	logger *zap.Logger
}

// NewAnalyticsHandler constructs the HTTP handler adapter.
func NewAnalyticsHandler(svc AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{svc: svc, logger: logger}
}

// KPIs returns the KPI snapshot for ?date= (default today).
func (h *AnalyticsHandler) KPIs(c *gin.Context) {
	ref, ok := h.refDate(c)
	if !ok {
		return
	}
	kpi, err := h.svc.KPIs(c.Request.Context(), ref)
	h.respond(c, kpi, err)
}

// Risk returns the outbreak risk assessment for ?date=.
func (h *AnalyticsHandler) Risk(c *gin.Context) {
	ref, ok := h.refDate(c)
	if !ok {
		return
	}
	res, err := h.svc.Risk(c.Request.Context(), ref)
	h.respond(c, res, err)
}

// Forecast returns the egg production forecast for ?days= (default configured horizon).
func (h *AnalyticsHandler) Forecast(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxForecastDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 60"})
			return
		}
		days = n
	}
	res, err := h.svc.Forecast(c.Request.Context(), days)
	h.respond(c, res, err)
}

// Alerts returns the operational alerts for ?date=.
func (h *AnalyticsHandler) Alerts(c *gin.Context) {
	ref, ok := h.refDate(c)
	if !ok {
		return
	}
	alerts, err := h.svc.Alerts(c.Request.Context(), ref)
	h.respond(c, gin.H{"alerts": alerts}, err)
}

// FlockHealth returns the health breakdown of the :id flock.
func (h *AnalyticsHandler) FlockHealth(c *gin.Context) {
	res, err := h.svc.FlockHealth(c.Request.Context(), c.Param("id"))
	h.respond(c, res, err)
}

// FlockStage returns the age and lifecycle stage of the :id flock on ?date=.
func (h *AnalyticsHandler) FlockStage(c *gin.Context) {
	ref, ok := h.refDate(c)
	if !ok {
		return
	}
	res, err := h.svc.FlockStage(c.Request.Context(), c.Param("id"), ref)
	h.respond(c, res, err)
}

// PestScore returns the biosecurity pest score.
func (h *AnalyticsHandler) PestScore(c *gin.Context) {
	score, err := h.svc.PestScore(c.Request.Context())
	h.respond(c, gin.H{"score": score}, err)
}

func (h *AnalyticsHandler) refDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return h.svc.Today(), true
	}
	ref, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return ref, true
}

func (h *AnalyticsHandler) respond(c *gin.Context, body any, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, body)
	case errors.Is(err, reporting.ErrUnknownFlock):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("analytics request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load farm data"})
	}
}
