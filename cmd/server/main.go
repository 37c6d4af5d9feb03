package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/metrics"
	"github.com/mamadbah2/inventory-portal/internal/repository/mongodb"
	"github.com/mamadbah2/inventory-portal/internal/repository/sheets"
	"github.com/mamadbah2/inventory-portal/internal/scheduler"
	"github.com/mamadbah2/inventory-portal/internal/server/handlers"
	"github.com/mamadbah2/inventory-portal/internal/server/router"
	"github.com/mamadbah2/inventory-portal/internal/service/digest"
	"github.com/mamadbah2/inventory-portal/internal/service/portal"
	"github.com/mamadbah2/inventory-portal/internal/service/session"
	"github.com/mamadbah2/inventory-portal/pkg/clients/inventory"
	"github.com/mamadbah2/inventory-portal/pkg/clients/whatsapp"
	"github.com/mamadbah2/inventory-portal/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	endpoints, err := config.LoadEndpoints(cfg.Backend.EndpointsFile)
	if err != nil {
		baseLogger.Fatal("failed to load backend endpoints", zap.Error(err))
	}

	var m *metrics.Metrics
	if cfg.Server.MetricsEnabled {
		m = metrics.New()
	}

	inventoryClient := inventory.NewClient(cfg.Backend, endpoints, m, logger.Named(baseLogger, "client.inventory"))
	portalSvc := portal.NewService(inventoryClient, endpoints, cfg.Backend.BaseURL, logger.Named(baseLogger, "svc.portal"))

	sessions := session.NewManager(inventoryClient, cfg.Session.TTL, logger.Named(baseLogger, "svc.session"))
	sessions.OnExpire(portalSvc.Workspaces().Drop)

	jobs := scheduler.Jobs{
		Dashboards: portalSvc,
		Sessions:   sessions,
		Gauge:      m,
	}

	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		jobs.Snapshots = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, dashboard snapshots disabled")
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		jobs.Sheets = sheetsRepo
	}

	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsapp.NewClient(cfg.WhatsApp)
		jobs.Notifier = whatsapp.NewNotifier(whatsClient, cfg.WhatsApp.DigestRecipient, logger.Named(baseLogger, "notifier.whatsapp"))
		jobs.Digests = digest.NewService(inventoryClient, endpoints, logger.Named(baseLogger, "svc.digest"))
		baseLogger.Info("whatsapp digest enabled")
	}

	sched := scheduler.NewScheduler(cfg.Scheduler, jobs, logger.Named(baseLogger, "scheduler"))
	sched.Start()
	defer sched.Stop()

	portalHandler := handlers.NewPortalHandler(portalSvc, sessions, m, cfg.Session.TTL, logger.Named(baseLogger, "handlers.portal"))
	engine := router.New(portalHandler, sessions, m, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Backend.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("backend", cfg.Backend.BaseURL))
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
}
