package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/middleware"
	tg "github.com/set-night/eduassist/internal/telegram"
)

// HandleTextPrivate relays private text messages to the dialogue runtime.
func (h *Handler) HandleTextPrivate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}

	h.relay(ctx, b, update.Message.Chat.ID, text)
}

func (h *Handler) handleQuickReply(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}

	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cq.ID,
	})

	if cq.Message.Message == nil {
		return
	}
	payload := strings.TrimPrefix(cq.Data, tg.QuickReplyPrefix)
	if payload == "" {
		return
	}

	h.relay(ctx, b, cq.Message.Message.Chat.ID, payload)
}

func (h *Handler) relay(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	sender := senderID(ctx, chatID)

	stopTyping := tg.StartTyping(ctx, b, chatID)
	replies, err := h.runtime.SendMessage(ctx, sender, text)
	stopTyping()

	if err != nil {
		slog.Error("relay to runtime", "error", err, "sender_id", sender)
		h.tgLogger.LogError(err, "relay "+sender)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   config.UtterRuntimeUnavailable,
		})
		return
	}

	if err := tg.SendReplies(ctx, b, chatID, replies); err != nil {
		slog.Error("send runtime replies", "error", err, "sender_id", sender)
	}
}

// senderID prefers the id set by middleware.SenderLoader.
func senderID(ctx context.Context, chatID int64) string {
	if s := middleware.SenderID(ctx); s != "" {
		return s
	}
	return middleware.TelegramSenderID(chatID)
}
