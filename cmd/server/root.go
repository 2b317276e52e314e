package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"searchrelay/internal/config"
	"searchrelay/internal/db"
	"searchrelay/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:          "searchrelay",
	Short:        "Search suggestion relay",
	Long:         "Records search queries and serves autocomplete suggestions blended from history, Wikipedia and Google Trends.",
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(recordCmd)
}

// loadConfig reads env and optional YAML config, then installs the logger.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	yamlCfg.Apply(cfg)

	logging.Setup(logging.Options{
		Level: cfg.LogLevel,
		JSON:  !cfg.IsDev(),
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openStore connects to the history store and applies migrations.
func openStore(ctx context.Context, cfg *config.Config) (db.Store, error) {
	store, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("migrations completed")

	return store, nil
}
