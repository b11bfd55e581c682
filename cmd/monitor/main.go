package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"toolindex/internal/archive"
	"toolindex/internal/background"
	"toolindex/internal/badge"
	"toolindex/internal/config"
	cronrunner "toolindex/internal/cron"
	"toolindex/internal/db"
	"toolindex/internal/export"
	gh "toolindex/internal/github"
	"toolindex/internal/handler"
	"toolindex/internal/health"
	"toolindex/internal/logger"
	"toolindex/internal/models"
	"toolindex/internal/notify"
	"toolindex/internal/probe"
	"toolindex/internal/repometa"
	gormrepository "toolindex/internal/repository/gorm"

	_ "toolindex/docs"
)

func main() {
	cfgPath := os.Getenv("TI_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TI_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := gormrepository.New(dbConn.Gorm)

	// Detached side effects (archival, notifications) must outlive the cycle
	// that spawned them; shutdown waits on the runner instead.
	tasks := background.New(logger, context.WithoutCancel(ctx))

	prober := probe.New(cfg.App.SiteURL, cfg.Probe.Timeout, logger)
	ghClient := gh.NewClient(cfg.GitHub.Token, cfg.GitHub.Timeout, logger)

	archiver := &archive.Archiver{
		Repo:   store,
		Config: cfg.Archive,
		Logger: logger,
	}
	notifier := &notify.Notifier{
		Repo:    store,
		GitHub:  ghClient,
		SiteURL: cfg.App.SiteURL,
		Logger:  logger,
	}

	scheduler := &health.Scheduler{
		Repo:       store,
		Prober:     prober,
		Archiver:   archiver,
		Background: tasks,
		Config:     cfg.Health,
		Logger:     logger,
	}
	if cfg.Notify.Enabled {
		scheduler.Notifier = notifier
	}

	detector := &badge.Detector{
		Repo:    store,
		Config:  cfg.Badge,
		SiteURL: cfg.App.SiteURL,
		Logger:  logger,
	}
	exporter := &export.Exporter{
		Repo:   store,
		GitHub: ghClient,
		Config: cfg.Export,
		Logger: logger,
	}
	refresher := &repometa.Refresher{
		Repo:   store,
		GitHub: ghClient,
		Config: cfg.RepoMeta,
		Logger: logger,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	jobsHandler := &handler.JobsHandler{
		Health:   scheduler,
		Badge:    detector,
		Exporter: exporter,
		RepoMeta: refresher,
		Logger:   logger,
	}
	jobsHandler.Register(engine)
	toolsHandler := &handler.ToolsHandler{
		Repo:     store,
		Notifier: notifier,
		Config:   cfg.Health,
		Logger:   logger,
	}
	toolsHandler.Register(engine)
	exportsHandler := &handler.ExportsHandler{Repo: store}
	exportsHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		registerCron(cronRunner, cfg, scheduler, detector, exporter, refresher, logger)
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	tasks.Wait(10 * time.Second)
}

func registerCron(
	runner *cronrunner.Runner,
	cfg config.Config,
	scheduler *health.Scheduler,
	detector *badge.Detector,
	exporter *export.Exporter,
	refresher *repometa.Refresher,
	logger *zap.Logger,
) {
	if _, err := runner.Add(cfg.Cron.HealthCheck, func(ctx context.Context) {
		if _, err := scheduler.RunOnce(ctx); err != nil {
			logger.Warn("cron health check failed", zap.Error(err))
		}
	}); err != nil {
		logger.Warn("cron register health check failed", zap.Error(err))
	}

	if _, err := runner.Add(cfg.Cron.BadgeScan, func(ctx context.Context) {
		if _, err := detector.RunOnce(ctx); err != nil {
			logger.Warn("cron badge scan failed", zap.Error(err))
		}
	}); err != nil {
		logger.Warn("cron register badge scan failed", zap.Error(err))
	}

	if _, err := runner.Add(cfg.Cron.Export, func(ctx context.Context) {
		if _, err := exporter.Export(ctx, models.ExportTriggerCron); err != nil {
			logger.Warn("cron export failed", zap.Error(err))
		}
	}); err != nil {
		logger.Warn("cron register export failed", zap.Error(err))
	}

	if _, err := runner.Add(cfg.Cron.RepoRefresh, func(ctx context.Context) {
		if _, err := refresher.RunOnce(ctx); err != nil {
			logger.Warn("cron repo refresh failed", zap.Error(err))
		}
	}); err != nil {
		logger.Warn("cron register repo refresh failed", zap.Error(err))
	}
}
