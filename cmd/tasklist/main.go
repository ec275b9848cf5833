package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasklist/internal/config"
	"tasklist/internal/notify"
	"tasklist/internal/server"
	"tasklist/internal/storage"
	"tasklist/internal/storage/memory"
	"tasklist/internal/storage/sqlite"
	"tasklist/internal/tasks"
	"tasklist/internal/util"
)

func main() {
	configFlag := flag.String("config", util.EnvOrDefault("TASKLIST_CONFIG", ""), "Path to YAML config file")
	addrFlag := flag.String("addr", "", "HTTP listen address")
	staticFlag := flag.String("static", "", "Directory with built frontend")
	backendFlag := flag.String("backend", "", "Task storage backend: memory or sqlite")
	ttlFlag := flag.Duration("notify-ttl", 0, "How long notifications stay visible")
	levelFlag := flag.String("log-level", "", "Log level: debug, info, warn or error")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addrFlag
		case "static":
			cfg.StaticDir = *staticFlag
		case "backend":
			cfg.Backend = *backendFlag
		case "notify-ttl":
			cfg.NotifyTTL = *ttlFlag
		case "log-level":
			cfg.LogLevel = *levelFlag
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	logger.Info("tasklist starting", slog.String("backend", cfg.Backend), slog.Duration("notify_ttl", cfg.NotifyTTL))

	repo, err := openRepository(cfg.Backend, logger)
	if err != nil {
		logger.Error("unable to open task storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := tasks.New(repo, notify.New(cfg.NotifyTTL), logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close task store", slog.String("error", err.Error()))
		}
	}()

	srv := server.New(store, logger, cfg.StaticDir)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

func openRepository(backend string, logger *slog.Logger) (storage.Repository, error) {
	switch backend {
	case config.BackendSQLite:
		db, err := sqlite.Open(logger)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.BackendMemory:
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}
