package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/set-night/eduassist"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/documents"
	"github.com/set-night/eduassist/internal/handler/gateway"
	"github.com/set-night/eduassist/internal/repository"
	"github.com/set-night/eduassist/internal/runtime"
	"github.com/set-night/eduassist/internal/server"
	"github.com/set-night/eduassist/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, err := documents.NewStore(cfg.UploadDir, cfg.MaxUploadBytes, config.AllowedDocumentTypes)
	if err != nil {
		slog.Error("failed to prepare upload dir", "error", err)
		os.Exit(1)
	}

	deps := gateway.Deps{
		Runtime:   runtime.NewClient(cfg.RuntimeURL, cfg.RuntimeToken, cfg.RuntimeTimeout),
		Documents: docs,
	}

	// Analytics and transcripts read the action server's database; the memory
	// backend lives inside the action server process and cannot be shared.
	if cfg.StorageDriver == config.StorageDriverPostgres {
		if err := cfg.RequireDatabase(); err != nil {
			slog.Error("invalid storage config", "error", err)
			os.Exit(1)
		}
		migrationsFS, err := fs.Sub(eduassist.MigrationsFS, "migrations")
		if err != nil {
			slog.Error("failed to load embedded migrations", "error", err)
			os.Exit(1)
		}
		pg, err := repository.OpenPostgres(ctx, cfg.DatabaseURL, migrationsFS)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()

		deps.Conversations = service.NewConversationService(pg, cfg.StoreTimeout)
		deps.Analytics = service.NewAnalyticsService(pg, cfg.StoreTimeout)
	}

	srv := server.New(cfg.GatewayAddr(), gateway.NewRouter(deps))

	slog.Info("starting gateway", "addr", srv.Addr, "runtime_url", cfg.RuntimeURL, "upload_dir", cfg.UploadDir)
	if err := server.Run(ctx, srv); err != nil {
		slog.Error("gateway stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("gateway stopped gracefully")
}
