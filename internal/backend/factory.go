package backend

import (
	"context"
	"fmt"
	"log/slog"

	"findash/internal/config"
	"findash/internal/storage"
	"findash/internal/storage/memory"
	"findash/internal/storage/postgres"
)

// Open creates the store named by databaseURL. An empty value falls back to
// the default SQLite file.
func Open(ctx context.Context, databaseURL string, logger *slog.Logger) (storage.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if databaseURL == "" {
		databaseURL = config.DefaultDatabaseURL
	}

	switch DetectType(databaseURL) {
	case Memory:
		logger.Info("Initialized memory backend")
		return memory.New(), nil

	case Postgres:
		store, err := postgres.Open(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres store: %w", err)
		}
		logger.Info("Initialized postgres backend", "backend", store.Describe())
		return store, nil

	default:
		path := SQLitePath(databaseURL)
		repo, err := storage.NewSQLiteRepository(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", path)
		return repo, nil
	}
}

// Ping checks the store connection when the store supports it.
func Ping(ctx context.Context, store storage.Store) error {
	if p, ok := store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
