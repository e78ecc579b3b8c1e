package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultDatabaseURL is the SQLite file used when DATABASE_URL is unset.
const DefaultDatabaseURL = "./data/findash.db"

type Config struct {
	// HTTP server
	Port         string        `envconfig:"PORT" default:"8081"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	// WriteRateLimit is the number of mutating API requests allowed per
	// client and minute.
	WriteRateLimit int `envconfig:"WRITE_RATE_LIMIT" default:"120"`

	// Store: a file path, a postgres URL or "memory". Empty selects
	// DefaultDatabaseURL.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// AMQP. An empty URL disables ledger event publishing.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"findash"`
	AMQPQueue    string `envconfig:"AMQP_QUEUE" default:"ledger_mirror"`

	// Google Sheets mirror
	GoogleSpreadsheetID   string `envconfig:"GOOGLE_SPREADSHEET_ID"`
	GoogleSheetName       string `envconfig:"GOOGLE_SHEET_NAME" default:"Ledger"`
	GoogleCredentialsFile string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	GoogleCredentialsJSON string `envconfig:"GOOGLE_CREDENTIALS_JSON"`

	// Worker
	SyncInterval time.Duration `envconfig:"SYNC_INTERVAL" default:"10m"`

	// Summary cache
	SummaryCacheSize int           `envconfig:"SUMMARY_CACHE_SIZE" default:"32"`
	SummaryCacheTTL  time.Duration `envconfig:"SUMMARY_CACHE_TTL" default:"5m"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		cfg.DatabaseURL = DefaultDatabaseURL
	}
	return &cfg, nil
}

// Validate validates the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		errors = append(errors, "database URL cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.WriteRateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid write rate limit %d: must be at least 1", c.WriteRateLimit))
	}
	if c.SummaryCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid summary cache size %d: must be at least 1", c.SummaryCacheSize))
	}
	if c.SummaryCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid summary cache TTL %v: must be at least 1 second", c.SummaryCacheTTL))
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// ValidateWorker adds the checks the sheets mirror worker needs on top of
// Validate.
func (c *Config) ValidateWorker() error {
	var errors []string
	if err := c.Validate(); err != nil {
		errors = append(errors, strings.TrimPrefix(err.Error(), "configuration validation failed:\n- "))
	}

	if c.AMQPURL == "" {
		errors = append(errors, "AMQP URL is required for the mirror worker")
	}
	if c.GoogleSpreadsheetID == "" {
		errors = append(errors, "Google Spreadsheet ID is required for the mirror worker")
	}
	if c.GoogleCredentialsFile == "" && c.GoogleCredentialsJSON == "" {
		errors = append(errors, "either GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS_JSON must be provided for the mirror worker")
	}
	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// ParseLevel maps LOG_LEVEL values onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be one of debug, info, warn, error", s)
}
