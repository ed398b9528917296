package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/set-night/eduassist"
	"github.com/set-night/eduassist/internal/action"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/emotion"
	"github.com/set-night/eduassist/internal/handler/actionserver"
	"github.com/set-night/eduassist/internal/repository"
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

	// Open storage
	var store service.Store
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		slog.Warn("using in-memory storage, data is lost on restart")
		store = repository.NewMemoryStore()
	default:
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
		store = pg
	}

	// Initialize services
	conversations := service.NewConversationService(store, cfg.StoreTimeout)
	knowledge := service.NewKnowledgeService(store, cfg.StoreTimeout)

	dispatcher := action.NewDispatcher(action.Deps{
		Conversations: conversations,
		Knowledge:     knowledge,
		Analyzer:      emotion.NewAnalyzer(emotion.WithMatchMode(emotion.ParseMatchMode(cfg.EmotionMatchMode))),
	})

	srv := server.New(cfg.ActionsAddr(), actionserver.NewRouter(dispatcher))

	slog.Info("starting action server", "addr", srv.Addr, "storage", cfg.StorageDriver, "actions", dispatcher.Actions())
	if err := server.Run(ctx, srv); err != nil {
		slog.Error("action server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("action server stopped gracefully")
}
