package main

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"findash/internal/amqp"
	"findash/internal/cli"
	"findash/internal/config"
	flog "findash/internal/log"
	gsheet "findash/internal/sheets/google"
	"findash/internal/worker"
)

func main() {
	cfg, err := cli.LoadConfig((*config.Config).ValidateWorker)
	level := ""
	if cfg != nil {
		level = cfg.LogLevel
	}
	logger := cli.SetupLogger(level).WithComponent(flog.ComponentWorker)
	if err != nil {
		cli.Fatal(logger, "Configuration validation failed", err)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	logger.Info("Starting findash-worker")

	store, err := cli.OpenStore(ctx, logger, cfg.DatabaseURL)
	if err != nil {
		cli.Fatal(logger, "Failed to open store", err)
	}
	defer store.Close()

	mirror, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleCredentialsJSON,
		CredentialsFile: cfg.GoogleCredentialsFile,
	})
	if err != nil {
		cli.Fatal(logger, "Failed to initialize Google Sheets client", err)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(store, mirror)

	// Catch up on anything published while the worker was down.
	if err := syncWorker.FullSync(ctx); err != nil {
		logger.Error("Startup sync failed", flog.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeWithRetry(gctx, syncWorker.HandleLedgerEvent)
	})
	g.Go(func() error {
		return syncWorker.RunPeriodicSync(gctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", flog.FieldError, err.Error())
		return
	}
	logger.Info("Worker shutdown complete")
}
