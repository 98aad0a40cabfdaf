package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nyashahama/giftie-backend/internal/config"
)

// Flag overrides; empty means "use the environment".
var (
	dbDriver    string
	databaseURL string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "giftie",
		Short:         "Giftie backend: friends, gift suggestions, checkout and postcards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "database driver: sqlite3 or postgres (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "db", "", "database file or DSN (overrides DATABASE_URL)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment, applies flag overrides and installs the
// default logger. strict=false tolerates missing service credentials, for
// commands that only touch the database.
func loadConfig(strict bool) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if dbDriver != "" {
		cfg.DBDriver = dbDriver
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}

	logger := newLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	if err != nil {
		if strict {
			return nil, nil, fmt.Errorf("config: %w", err)
		}
		logger.Debug("config incomplete, continuing", "error", err)
	}
	return cfg, logger, nil
}

// newLogger returns JSON output in production and text elsewhere. level, when
// set, overrides the env-based default of info (production) or debug.
func newLogger(env, level string) *slog.Logger {
	lvl := slog.LevelDebug
	if env == "production" {
		lvl = slog.LevelInfo
	}
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
