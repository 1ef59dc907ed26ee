package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pledgeboard/internal/config"
	apphttp "pledgeboard/internal/http"
	"pledgeboard/internal/loader"
	applog "pledgeboard/internal/log"
	"pledgeboard/internal/source"
	"pledgeboard/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	var pledges, payments source.RecordSource
	switch cfg.DataBackend {
	case "snapshot":
		repo, err := storage.NewSnapshotRepository(cfg.SnapshotDBPath)
		if err != nil {
			logger.Error("Failed to open snapshot database", applog.FieldError, err, "path", cfg.SnapshotDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		pledges = source.NewSnapshot(repo, storage.DatasetPledges)
		payments = source.NewSnapshot(repo, storage.DatasetPayments)
	default:
		pledges = source.FromLocation(cfg.PledgesLocation, cfg.FetchTimeout)
		payments = source.FromLocation(cfg.PaymentsLocation, cfg.FetchTimeout)
	}

	// Both datasets load once, before the server accepts traffic. Any schema
	// or join failure is fatal: no partial dashboard.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 2*cfg.FetchTimeout)
	table, err := loader.Load(loadCtx, pledges, payments)
	loadCancel()
	if err != nil {
		logger.Error("Failed to load datasets", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	logger.Info("Data loaded and joined",
		applog.FieldRows, table.Len(), applog.FieldYears, table.Years())

	srv := apphttp.NewServer(":"+cfg.Port, table)
	srv.Handler = applog.Middleware(logger)(srv.Handler)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting pledgeboard server", "port", cfg.Port, applog.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
