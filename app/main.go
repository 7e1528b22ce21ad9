package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plenarlab/bt-agenda/app/agenda"
	"github.com/plenarlab/bt-agenda/app/api"
	"github.com/plenarlab/bt-agenda/app/cache"
	"github.com/plenarlab/bt-agenda/app/cfg"
	"github.com/plenarlab/bt-agenda/app/store"
	"github.com/plenarlab/bt-agenda/app/tasks"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting bt-agenda server", "version", appConfig.Version)

	kv, err := store.NewSQLiteKV(appConfig.DBPath)
	if err != nil {
		slog.Error("Failed to open key-value store", "path", appConfig.DBPath, "error", err)
		os.Exit(1)
	}
	defer kv.Close()
	slog.Info("Key-value store ready", "path", appConfig.DBPath)

	var responseCache cache.Cache
	if appConfig.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(appConfig.RedisAddr)
		if err != nil {
			slog.Error("Failed to connect to Redis", "addr", appConfig.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		responseCache = redisCache
		slog.Info("Response cache backed by Redis", "addr", appConfig.RedisAddr)
	} else {
		responseCache = cache.NewMemoryCache()
		slog.Info("Response cache held in memory")
	}

	// Core pipeline
	partitions := agenda.NewPartitionRepository(kv)
	coordinator := cache.NewCoordinator(responseCache, cache.NewKeyIndex(kv), cfg.Location())

	fetcher := agenda.NewFetcher(&http.Client{Timeout: 30 * time.Second},
		appConfig.UpstreamUrl, appConfig.UserAgent)
	parser := agenda.NewParser(cfg.Location())
	reconciler := agenda.NewReconciler(partitions)
	planner := agenda.NewPlanner(fetcher, parser, partitions, reconciler, coordinator, cfg.Location())

	// Background refresh of the current week
	scheduler := tasks.NewScheduler(planner)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "interval_seconds", appConfig.RefreshInterval)

	// HTTP server
	handler := api.NewHandler(planner, coordinator, partitions)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
