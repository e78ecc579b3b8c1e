package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"findash/internal/amqp"
	"findash/internal/backend"
	"findash/internal/cache"
	"findash/internal/cli"
	"findash/internal/config"
	apphttp "findash/internal/http"
	flog "findash/internal/log"
	"findash/internal/services"
	"findash/internal/storage"
	"findash/internal/summary"
)

func main() {
	cfg, err := cli.LoadConfig((*config.Config).Validate)
	logger := cli.SetupLogger(levelOf(cfg))
	if err != nil {
		cli.Fatal(logger, "Configuration validation failed", err)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	store, err := cli.OpenStore(ctx, logger, cfg.DatabaseURL)
	if err != nil {
		cli.Fatal(logger, "Failed to open store", err)
	}

	summaries := cache.NewLRUCache[summary.Summary](cfg.SummaryCacheSize, cfg.SummaryCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(summaries)
	cacheManager.StartCleanup(cfg.SummaryCacheTTL)

	opts := []services.Option{services.WithSummaryCache(summaries), services.WithLogger(logger)}
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without ledger events", flog.FieldError, err.Error())
		} else {
			opts = append(opts, services.WithPublisher(amqpClient))
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}
	ledger := services.NewLedgerService(store, opts...)

	srv := apphttp.NewServer(cfg.Addr(), ledger, apphttp.Options{
		Logger:         logger,
		WriteRateLimit: cfg.WriteRateLimit,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		Ready:          readiness(store),
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", flog.FieldError, err.Error())
		}
	}()

	logger.Info("Starting findash server", "addr", cfg.Addr(), flog.FieldBackend, store.Describe())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", flog.FieldError, err.Error())
	}

	cacheManager.Stop()
	if amqpClient != nil {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", flog.FieldError, err.Error())
		}
	}
	if err := ledger.Close(); err != nil {
		logger.Warn("Failed to close store", flog.FieldError, err.Error())
	}
	logger.Info("Server stopped gracefully")
}

func readiness(store storage.Store) func(context.Context) error {
	return func(ctx context.Context) error {
		return backend.Ping(ctx, store)
	}
}

func levelOf(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.LogLevel
}
