package main

import (
	"github.com/spf13/cobra"

	"projet/internal/platform/config"
)

// newRootCmd builds the command tree. Flags override the environment.
func newRootCmd() *cobra.Command {
	cfg := config.FromEnv()

	rootCmd := &cobra.Command{
		Use:   "projet",
		Short: "Region, city and player registry",
		Long: `projet serves the region / city / player registry over a JSON API.

Without DATABASE_URL it runs on in-memory stores; REDIS_URL enables the record
cache and KAFKA_BROKERS publishes change events to Kafka.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.Database.URL, "database-url", cfg.Database.URL, "PostgreSQL DSN (env: DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level: debug, info, warn, error (env: LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Log format: json, text (env: LOG_FORMAT)")

	rootCmd.AddCommand(newServeCmd(&cfg))
	rootCmd.AddCommand(newMigrateCmd(&cfg))

	return rootCmd
}
