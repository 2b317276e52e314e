package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"searchrelay/internal/config"
	"searchrelay/internal/jobs"
	"searchrelay/internal/metrics"
	"searchrelay/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	metrics.Init(store, cfg.MetricsTopQueries)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if targets := providerTargets(cfg); cfg.ProviderCheckInterval > 0 && len(targets) > 0 {
		checker := jobs.NewProviderChecker(targets, cfg.ProviderCheckInterval, cfg.UserAgent)
		go checker.Start(ctx)
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(store, server.NewPipeline(cfg, store))

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	slog.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return err
	}
	slog.Info("server exited")
	return nil
}

// providerTargets lists the endpoints of enabled providers for background probes.
func providerTargets(cfg *config.Config) []jobs.Target {
	var targets []jobs.Target
	if cfg.Wikipedia.Enabled {
		targets = append(targets, jobs.Target{Name: "wikipedia", URL: cfg.Wikipedia.APIURL})
	}
	if cfg.Trends.Enabled {
		targets = append(targets, jobs.Target{Name: "trends", URL: cfg.Trends.URL})
	}
	return targets
}
