package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nyashahama/giftie-backend/internal/db"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(false)
			if err != nil {
				return err
			}

			pool, err := db.Open(context.Background(), cfg.DBDriver, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("database: %w", err)
			}
			defer pool.Close()

			if err := db.Migrate(pool); err != nil {
				return err
			}
			logger.Info("migrations applied", "driver", cfg.DBDriver)
			return nil
		},
	}
}
