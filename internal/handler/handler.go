package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/documents"
	"github.com/set-night/eduassist/internal/runtime"
	"github.com/set-night/eduassist/internal/telegram"
)

// Runtime relays a user message to the dialogue runtime.
type Runtime interface {
	SendMessage(ctx context.Context, sender, message string) ([]runtime.BotMessage, error)
}

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot       *bot.Bot
	cfg       *config.Config
	runtime   Runtime
	documents *documents.Store
	tgLogger  *telegram.TelegramLogger
}

// Deps contains all dependencies required to construct a Handler.
// Documents is optional; without it document messages are ignored.
type Deps struct {
	Bot       *bot.Bot
	Cfg       *config.Config
	Runtime   Runtime
	Documents *documents.Store
	TgLogger  *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:       deps.Bot,
		cfg:       deps.Cfg,
		runtime:   deps.Runtime,
		documents: deps.Documents,
		tgLogger:  deps.TgLogger,
	}
}
