package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forem/forem-sub028/internal/feed"
	"github.com/forem/forem-sub028/internal/httpapi"
	"github.com/forem/forem-sub028/internal/redisclient"
	"github.com/forem/forem-sub028/internal/storage"
	"github.com/forem/forem-sub028/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the feed API server and background workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		applyLogLevel(cfg.App.LogLevel)

		cacheTTL, err := time.ParseDuration(cfg.Feed.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache_ttl: %w", err)
		}
		upstreamTimeout, err := time.ParseDuration(cfg.Feed.UpstreamTimeout)
		if err != nil {
			return fmt.Errorf("invalid upstream_timeout: %w", err)
		}
		snapshotInterval, err := time.ParseDuration(cfg.Feed.SnapshotInterval)
		if err != nil {
			return fmt.Errorf("invalid snapshot_interval: %w", err)
		}
		shutdownTimeout, err := time.ParseDuration(cfg.Server.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid shutdown_timeout: %w", err)
		}

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		store := storage.NewRedisStore(rdb)
		pool := feed.NewFallbackPool()

		ws := []worker.Worker{
			&worker.SnapshotRefresher{
				Repo:     store,
				Pool:     pool,
				Size:     cfg.Feed.SnapshotSize,
				Interval: snapshotInterval,
			},
		}

		var cache feed.PageCache
		switch cfg.Feed.CacheBackend {
		case "redis":
			cache = storage.NewRedisPageCache(rdb)
		case "memory":
			mem := feed.NewMemoryCache()
			cache = mem
			ws = append(ws, &worker.CacheSweeper{Cache: mem, Interval: cacheTTL})
		default:
			return fmt.Errorf("unknown cache_backend %q", cfg.Feed.CacheBackend)
		}

		metrics := httpapi.NewMetrics(prometheus.DefaultRegisterer)
		svc := &feed.Service{
			Repo:            store,
			Config:          cfg.Feed,
			Cache:           cache,
			Pool:            pool,
			Observer:        metrics,
			CacheTTL:        cacheTTL,
			UpstreamTimeout: upstreamTimeout,
		}

		srv := httpapi.NewServer(svc, cfg.Server.Addr, shutdownTimeout)
		ws = append(ws, srv)

		mgr := worker.NewManager(ws...)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("received signal, shutting down", "signal", s.String())
			cancel()
		}()

		slog.Info("starting feed service",
			"addr", cfg.Server.Addr,
			"default_strategy", cfg.Feed.DefaultStrategy,
			"cache_backend", cfg.Feed.CacheBackend,
		)
		return mgr.Start(ctx)
	},
}

func applyLogLevel(level string) {
	switch level {
	case "debug":
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case "warn":
		slog.SetLogLoggerLevel(slog.LevelWarn)
	case "error":
		slog.SetLogLoggerLevel(slog.LevelError)
	default:
		slog.SetLogLoggerLevel(slog.LevelInfo)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
