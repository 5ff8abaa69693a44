package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rxlens/internal/config"
	"rxlens/internal/extractor"
	"rxlens/internal/handler"
	"rxlens/internal/health"
	"rxlens/internal/port"
	"rxlens/internal/repository/postgres"
	"rxlens/internal/router"
	"rxlens/internal/service"
	"rxlens/internal/ws"

	_ "rxlens/internal/extractor/claude"
	_ "rxlens/internal/extractor/gemini"
	_ "rxlens/internal/extractor/openai"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	presRepo := postgres.NewPrescriptionRepo(db)
	resultRepo := postgres.NewResultRepo(db)
	configRepo := postgres.NewConfigRepo(db)
	healthRepo := postgres.NewHealthRepo(db)

	// Initialize extractors
	extractors := make([]port.ModelExtractor, 0, len(extractor.Registered()))
	for _, name := range extractor.Registered() {
		providerCfg := cfg.Extractor.Provider(name)
		if providerCfg == nil || providerCfg.APIKey == "" {
			log.Printf("extractor %s: no API key configured, skipping", name)
			continue
		}
		e, err := extractor.New(name, providerCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize extractor %s: %w", name, err)
		}
		extractors = append(extractors, e)
	}
	orch := extractor.NewOrchestrator(extractors...)

	// Websocket hub
	hub := ws.NewHub(nil)
	go hub.Run(ctx)

	// DB health monitor
	monitor := health.NewMonitor(healthRepo,
		time.Duration(cfg.Health.IntervalSecs)*time.Second, cfg.Health.HistorySize)
	if err := monitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health monitor: %w", err)
	}

	// Initialize services
	presSvc := service.NewPrescriptionService(presRepo, resultRepo, configRepo, orch, hub, service.UploadLimits{
		MaxFiles:    cfg.Upload.MaxFiles,
		MaxFileSize: cfg.Upload.MaxFileSizeMB * 1024 * 1024,
	})
	cfgSvc := service.NewConfigService(configRepo)
	if err := cfgSvc.EnsureDefault(ctx); err != nil {
		return fmt.Errorf("failed to seed default config: %w", err)
	}

	// Requeue worker
	worker := service.NewProcessQueueWorker(presRepo, presSvc, service.ProcessQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Queue.Concurrency,
	})
	go worker.Start(ctx)

	// Initialize handlers
	healthH := handler.NewHealthHandler(healthRepo, monitor)
	prescriptionH := handler.NewPrescriptionHandler(presSvc, cfg.Upload.MaxFiles)
	configH := handler.NewConfigHandler(cfgSvc)
	exportH := handler.NewExportHandler(presRepo, resultRepo)

	r := router.Setup(cfg, hub, healthH, prescriptionH, configH, exportH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
