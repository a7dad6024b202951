package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kael/sitwell/internal/api"
	"github.com/kael/sitwell/internal/config"
	"github.com/kael/sitwell/internal/db"
	"github.com/kael/sitwell/internal/landmark"
	"github.com/kael/sitwell/internal/logger"
	"github.com/kael/sitwell/internal/repository/sqlite"
	"github.com/kael/sitwell/internal/scheduler"
	"github.com/kael/sitwell/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("SitWell Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("landmark_backend=%s", cfg.LandmarkBackend)
	log.Debug("landmark_sidecar_url=%s", cfg.LandmarkSidecarURL)
	log.Debug("detection_interval_seconds=%d", cfg.DetectionIntervalSeconds)
	log.Debug("smoothing_alpha=%g", cfg.SmoothingAlpha)
	log.Debug("retention_days=%d", cfg.RetentionDays)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Landmark backend
	provider := landmark.New(cfg)
	defer provider.Close()
	log.Info("landmark backend: %s", provider.Name())

	// Repositories and services
	settingsRepo := sqlite.NewSettingsRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)
	eventRepo := sqlite.NewEventRepository(database.DB)

	settingsService := services.NewSettingsService(settingsRepo)
	statsService := services.NewStatsService(statsRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startupCtx := logger.NewContext(ctx, log)
	settings, err := settingsService.Load(startupCtx)
	if err != nil {
		log.Error("failed to load settings: %v", err)
		os.Exit(1)
	}
	// Environment values seed the pipeline until the settings table has its
	// own values for them.
	if _, ok, err := settingsService.GetSetting(startupCtx, "capture_interval_seconds"); err == nil && !ok {
		settings.CaptureIntervalSeconds = cfg.DetectionIntervalSeconds
	}
	if _, ok, err := settingsService.GetSetting(startupCtx, "smoothing_alpha"); err == nil && !ok {
		settings.SmoothingAlpha = cfg.SmoothingAlpha
	}

	detectionService := services.NewDetectionService(
		settingsService, statsService, eventRepo, provider, settings, nil,
	)
	calibrationService := services.NewCalibrationService(detectionService, settings)
	sched := scheduler.New(detectionService)

	srv := &api.Server{
		Detection:   detectionService,
		Calibration: calibrationService,
		Settings:    settingsService,
		Stats:       statsService,
		Events:      eventRepo,
		Scheduler:   sched,
		BaseContext: startupCtx,
	}

	// Start the loop right away when a calibrated threshold already exists;
	// otherwise wait for calibration to complete and an explicit start.
	if err := sched.Start(startupCtx); err != nil {
		log.Warn("detection loop not started: %v", err)
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping detection loop")
	if sched.Running() {
		sched.Stop()
	}
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("SitWell Server Stopped")
	log.Info("===========================================")
}
