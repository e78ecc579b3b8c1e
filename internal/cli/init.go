// Package cli holds the start-up steps shared by the findash binaries.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"findash/internal/backend"
	"findash/internal/config"
	flog "findash/internal/log"
	"findash/internal/storage"
)

// SetupLogger installs a text logger on stdout at the given LOG_LEVEL and
// makes it the slog default.
func SetupLogger(level string) *flog.Logger {
	lvl, err := config.ParseLevel(level)
	logger := flog.New(flog.Config{Level: lvl, Component: flog.ComponentApp})
	flog.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", level)
	}
	return logger
}

// LoadConfig reads the environment. validate selects the checks for the
// binary being started, e.g. (*config.Config).Validate.
func LoadConfig(validate func(*config.Config) error) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if validate != nil {
		if err := validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// OpenStore opens the store configured by DATABASE_URL.
func OpenStore(ctx context.Context, logger *flog.Logger, databaseURL string) (storage.Store, error) {
	store, err := backend.Open(ctx, databaseURL, logger.WithComponent(flog.ComponentBackend).Logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *flog.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("Shutdown requested")
	}()
	return ctx, stop
}

// Fatal logs err and exits with status 1.
func Fatal(logger *flog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any(flog.FieldError, err))
	os.Exit(1)
}
