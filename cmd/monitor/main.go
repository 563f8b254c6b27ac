package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/social-monitor/internal/config"
	"github.com/social-monitor/internal/monitor"
	"github.com/social-monitor/internal/source"
	"github.com/social-monitor/internal/source/mock"
	"github.com/social-monitor/internal/source/rss"
	"github.com/social-monitor/internal/storage/sqlite"
	"github.com/social-monitor/pkg/logger"
	"github.com/social-monitor/pkg/ratelimit"
)

var (
	cfgFile string
	log     *logger.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "social-monitor",
		Short: "Background monitoring daemon for social media posts",
		Long: `Polls configured platform accounts on a fixed interval, persists
fetched posts and alerts on keyword matches in newly observed content.
This daemon should be run as a service for autonomous operation.`,
		RunE: runMonitor,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging := cfg.Logging()
	log = logger.New(logger.Config{
		Level:  logging.Level,
		Format: logging.Format,
		Output: logging.Output,
	})

	log.Info().Msg("Starting social media monitor")

	repo, err := sqlite.New(cfg.Database().DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	rl := cfg.RateLimit()
	limiter := ratelimit.NewMultiLimiter(rl.SourceRequestsPerSecond, rl.Burst)

	registry := source.NewRegistry()
	for name, pc := range cfg.Platforms() {
		if !pc.Enabled {
			continue
		}
		switch name {
		case "rss":
			registry.Register(rss.New())
		default:
			log.Warn().
				Str("platform", name).
				Msg("No native adapter for platform, using simulated source")
			registry.Register(mock.New(name))
		}
	}
	log.Info().Strs("platforms", registry.Platforms()).Msg("Sources registered")

	mc := cfg.Monitor()
	coordinator := monitor.NewCoordinator(registry, repo, limiter, mc.MaxConcurrent, log)
	scheduler := monitor.NewScheduler(cfg, repo, coordinator, log)

	// Health checks and operator endpoints for the management CLI
	go startAdminServer(cfg, scheduler)

	// Notification sink: a richer presentation layer would hook in here
	go func() {
		for n := range scheduler.Notifications() {
			log.Info().
				Str("platform", n.Post.Platform).
				Str("username", n.Post.Username).
				Str("post_url", n.Post.PostURL).
				Strs("keywords", n.Keywords).
				Msg("Keyword alert")
		}
	}()

	if err := scheduler.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}

	if !mc.Enabled {
		log.Warn().Msg("Monitoring is disabled in config; ticks will be skipped until enabled")
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down monitor")
	scheduler.Stop()
	coordinator.Wait()

	return nil
}
