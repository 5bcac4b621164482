package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/flockwatch/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. metrics may be nil.
func New(webhook *handlers.WebhookHandler, analytics *handlers.AnalyticsHandler, metrics http.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/webhook", webhook.Verify)
	r.POST("/webhook", webhook.Receive)
	r.POST("/send-message", webhook.SendMessage)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/kpi", analytics.KPIs)
	api.GET("/risk", analytics.Risk)
	api.GET("/forecast", analytics.Forecast)
	api.GET("/alerts", analytics.Alerts)
	api.GET("/flocks/:id/health", analytics.FlockHealth)
	api.GET("/flocks/:id/stage", analytics.FlockStage)
	api.GET("/biosecurity/pest-score", analytics.PestScore)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// probe endpoints are not logged
		if c.Request.URL.Path == "/metrics" || c.Request.URL.Path == "/healthz" {
			return
		}

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
