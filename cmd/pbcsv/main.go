// Package main is the entry point for the pbcsv server. It loads
// configuration, connects to optional services, loads the configured sheet,
// and serves the JSON API with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pbcsv/internal/cache"
	"pbcsv/internal/config"
	"pbcsv/internal/handlers"
	"pbcsv/internal/metrics"
	"pbcsv/internal/middleware"
	"pbcsv/internal/router"
	"pbcsv/internal/source"
	"pbcsv/internal/storage"
	"pbcsv/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON otherwise.
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"source", cfg.Source,
	)

	m := metrics.New()

	// Valkey caches fetched sheets. The server works without it.
	var sourceCache *cache.SourceCache
	if cfg.CacheEnabled() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, source cache disabled", "error", err)
		} else {
			defer valkeyClient.Close()
			sourceCache = cache.NewSourceCache(valkeyClient, cfg.SourceCacheTTL)
			slog.Info("source cache enabled", "ttl", cfg.SourceCacheTTL)
		}
	}

	var s3Client *storage.Client
	if cfg.S3Enabled() {
		s3Client, err = storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage configured", "endpoint", s3Client.Endpoint())
	} else {
		slog.Warn("s3 storage not configured, s3:// sources disabled")
	}

	fetcher := source.New(source.Options{
		Timeout:  cfg.FetchTimeout,
		MaxBytes: cfg.MaxSourceBytes,
		S3:       s3Client,
		Cache:    sourceCache,
		Metrics:  m,
	})
	library := store.NewLibrary(fetcher, m)

	if cfg.Source != "" {
		go loadSource(library, cfg.Source, cfg.FetchTimeout)
	} else {
		slog.Warn("no PBCSV_SOURCE configured, waiting for POST /api/load")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	defer limiter.Stop()

	sources := handlers.SourcePolicy{Configured: cfg.Source, Allowed: cfg.AllowedSources}
	api := handlers.NewAPI(library, fetcher, sources, fetcher.MaxBytes())
	r := router.New(api, limiter)

	// Loads wait on remote sources, so writes get the fetch timeout on top
	// of the usual allowance.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// SIGHUP clears the source cache and reloads the configured source.
	// SIGINT and SIGTERM drain connections and exit.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigs {
		if sig == syscall.SIGHUP {
			fetcher.InvalidateAll(context.Background())
			if cfg.Source == "" {
				slog.Warn("reload requested but no PBCSV_SOURCE configured")
				continue
			}
			slog.Info("reload signal received", "source", cfg.Source)
			go loadSource(library, cfg.Source, cfg.FetchTimeout)
			continue
		}

		slog.Info("shutdown signal received", "signal", sig)
		break
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// loadSource loads location into the library. Failures are logged and the
// diagnostics stay available through the API.
func loadSource(library *store.Library, location string, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout+5*time.Second)
	defer cancel()

	res, err := library.Load(ctx, location)
	if err != nil {
		attrs := []any{"source", location, "error", err}
		if res != nil {
			attrs = append(attrs, "errors", res.Errors)
		}
		slog.Error("sheet load failed", attrs...)
		return
	}
	slog.Info("sheet loaded",
		"source", location,
		"categories", len(res.Tree.Categories),
		"runs", len(res.Tree.Runs),
		"warnings", len(res.Warnings),
	)
}
