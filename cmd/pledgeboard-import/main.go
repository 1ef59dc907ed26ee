// pledgeboard-import downloads the pledge and payment feeds and stores the
// raw documents in the local snapshot database, so the dashboard can start
// with DATA_BACKEND=snapshot and no network access.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"pledgeboard/internal/config"
	applog "pledgeboard/internal/log"
	"pledgeboard/internal/source"
	"pledgeboard/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := applog.DefaultConfig()
	cfg.Component = applog.ComponentImport
	logger := applog.New(cfg)
	applog.SetDefault(logger)

	appCfg := config.Load()
	if appCfg.PledgesLocation == "" || appCfg.PaymentsLocation == "" {
		logger.Error("Both dataset locations must be configured")
		os.Exit(1)
	}

	repo, err := storage.NewSnapshotRepository(appCfg.SnapshotDBPath)
	if err != nil {
		logger.Error("Failed to open snapshot database", applog.FieldError, err, "path", appCfg.SnapshotDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*appCfg.FetchTimeout+time.Minute)
	defer cancel()

	datasets := map[string]string{
		storage.DatasetPledges:  appCfg.PledgesLocation,
		storage.DatasetPayments: appCfg.PaymentsLocation,
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, location := range datasets {
		g.Go(func() error {
			body, err := source.RawDocument(gctx, location, appCfg.FetchTimeout)
			if err != nil {
				return err
			}
			if err := repo.SaveDataset(gctx, name, body); err != nil {
				return err
			}
			logger.InfoContext(gctx, "Dataset snapshotted",
				applog.FieldDataset, name, "location", location, "bytes", len(body))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Snapshot import failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Snapshot complete", "path", appCfg.SnapshotDBPath)
}
