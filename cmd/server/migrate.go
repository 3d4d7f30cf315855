package main

import (
	"errors"

	"github.com/spf13/cobra"

	"projet/internal/platform/config"
	"projet/internal/platform/logger"
	"projet/internal/platform/postgres"
)

func newMigrateCmd(cfg *config.Server) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the registry schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(cfg.Log.Level, cfg.Log.Format)
			if cfg.Database.URL == "" {
				return errors.New("migrate requires --database-url or DATABASE_URL")
			}

			ctx := cmd.Context()
			db, err := postgres.Open(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			log.InfoContext(ctx, "schema migrated")
			return nil
		},
	}
}
