package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/documents"
	"github.com/set-night/eduassist/internal/handler"
	"github.com/set-night/eduassist/internal/middleware"
	"github.com/set-night/eduassist/internal/runtime"
	"github.com/set-night/eduassist/internal/telegram"
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

	if cfg.BotToken == "" {
		slog.Error("BOT_TOKEN is required")
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, err := documents.NewStore(cfg.UploadDir, cfg.MaxUploadBytes, config.AllowedDocumentTypes)
	if err != nil {
		slog.Error("failed to prepare upload dir", "error", err)
		os.Exit(1)
	}

	limiter := middleware.NewWindowLimiter(cfg.BotRateLimit, config.RateLimitWindow)

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.SenderLoader(),
			middleware.Recover(cfg),
			middleware.Logging(),
			middleware.RateLimit(limiter),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			slog.Debug("unhandled update", "update_id", update.ID)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	// Initialize handler
	h := handler.New(handler.Deps{
		Bot:       b,
		Cfg:       cfg,
		Runtime:   runtime.NewClient(cfg.RuntimeURL, cfg.RuntimeToken, cfg.RuntimeTimeout),
		Documents: docs,
		TgLogger:  telegram.NewTelegramLogger(b, cfg),
	})

	// Register all handlers
	h.Register()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID, "runtime_url", cfg.RuntimeURL)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
