package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/flockwatch/internal/config"
	"github.com/mamadbah2/flockwatch/internal/metrics"
	"github.com/mamadbah2/flockwatch/internal/repository/mongodb"
	"github.com/mamadbah2/flockwatch/internal/repository/sheets"
	"github.com/mamadbah2/flockwatch/internal/scheduler"
	"github.com/mamadbah2/flockwatch/internal/server/handlers"
	"github.com/mamadbah2/flockwatch/internal/server/router"
	commandsvc "github.com/mamadbah2/flockwatch/internal/service/commands"
	reportingsvc "github.com/mamadbah2/flockwatch/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/flockwatch/internal/service/whatsapp"
	"github.com/mamadbah2/flockwatch/pkg/clients/anthropic"
	whatsappclient "github.com/mamadbah2/flockwatch/pkg/clients/whatsapp"
	"github.com/mamadbah2/flockwatch/pkg/logger"
)

func main() {
	envFile := flag.String("env-file", "", "path to a .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}
	if err := cfg.ValidateServer(); err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}

	sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, false, baseLogger.Named("repo.sheets"))
	if err != nil {
		baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
	}

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	loader := sheets.NewDatasetLoader(sheetsRepo, cfg.Analytics.Settings(), baseLogger.Named("repo.dataset"))
	dataset := sheets.NewCachedSource(loader, cfg.Sheets.CacheTTL)
	recorder := metrics.New()

	reportingSvc := reportingsvc.NewService(dataset, mongoRepo, recorder, reportingsvc.Options{
		ForecastDays: cfg.Analytics.ForecastDays,
		Location:     loc,
	}, baseLogger.Named("svc.reporting"))
	commandDispatcher := commandsvc.NewService(sheetsRepo, reportingSvc, dataset, baseLogger.Named("svc.commands"))

	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, free-text translation disabled")
	}

	whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
	messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, aiClient, baseLogger.Named("svc.whatsapp"))
	webhookHandler := handlers.NewWebhookHandler(messagingSvc, cfg.WhatsApp.AppSecret, baseLogger.Named("handlers.whatsapp"))
	analyticsHandler := handlers.NewAnalyticsHandler(reportingSvc, baseLogger.Named("handlers.analytics"))
	engine := router.New(webhookHandler, analyticsHandler, recorder.Handler(), baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(*cfg, reportingSvc, messagingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	sched.Start()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	sched.Stop(shutdownCtx)
}
