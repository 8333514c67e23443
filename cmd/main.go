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

	"github.com/niklabh/quadratic-funding-registry/internal/adapter/bolt"
	"github.com/niklabh/quadratic-funding-registry/internal/adapter/clock"
	"github.com/niklabh/quadratic-funding-registry/internal/adapter/events"
	httpadapter "github.com/niklabh/quadratic-funding-registry/internal/adapter/http"
	"github.com/niklabh/quadratic-funding-registry/internal/adapter/memory"
	"github.com/niklabh/quadratic-funding-registry/internal/adapter/postgres"
	"github.com/niklabh/quadratic-funding-registry/internal/adapter/usecase"
	"github.com/niklabh/quadratic-funding-registry/internal/config"
	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
	"github.com/niklabh/quadratic-funding-registry/internal/core/port"
	"github.com/niklabh/quadratic-funding-registry/internal/db"
)

// main loads configuration, initializes the structured logger, opens the
// selected storage backend, wires the registry engine with its
// collaborators, then runs the HTTP server and the finalization sweep
// ticker until a termination signal arrives.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init error", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	sinks := events.Fanout{events.NewSlogSink(logger)}
	if path := cfg.Storage.EventJournalPath; path != "" {
		journal, err := events.OpenJournal(path, logger)
		if err != nil {
			logger.Error("event journal init error", slog.Any("error", err))
			os.Exit(1)
		}
		defer journal.Close()
		sinks = append(sinks, journal)
	}

	// The in-process ledger is the only balance collaborator bundled with
	// the binary; deployments embedding the engine supply their own.
	ledger := memory.NewBalanceLedger()

	svc := usecase.NewRegistry(store, ledger, clock.System{}, sinks, usecase.Limits{
		MinimumDeposit: domain.Amount(cfg.Registry.MinimumDeposit),
		MaxActive:      cfg.Registry.MaxActive,
		MaxNameLen:     cfg.Registry.MaxNameLen,
		MaxDescLen:     cfg.Registry.MaxDescLen,
		MaxLinkLen:     cfg.Registry.MaxLinkLen,
	}, logger)

	// Finalization sweep: one pass per tick, the "new time period" trigger.
	go func() {
		ticker := time.NewTicker(cfg.Registry.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := svc.FinalizeDue(ctx)
				if err != nil {
					logger.Error("finalization sweep error", slog.Any("error", err))
				} else if n > 0 {
					logger.Info("campaigns finalized", slog.Int("count", n))
				}
			}
		}
	}()

	handler := httpadapter.NewHandler(svc, httpadapter.HeaderAuthorizer{}, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}

// openStore opens the configured storage backend.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (port.Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return memory.NewStore(), nil
	case "bolt":
		return bolt.Open(cfg.Storage.BoltPath)
	case "postgres":
		if cfg.Psql.RunMigrations {
			if err := db.Migrate(cfg.Psql.Addr.String()); err != nil {
				return nil, fmt.Errorf("migrations: %w", err)
			}
			logger.Info("migrations applied successfully")
		}
		pool, err := db.NewPostgresPool(ctx, cfg.Psql)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
