package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/eduassist/internal/config"
)

// restartCommand makes the dialogue runtime drop the tracker state for the sender.
const restartCommand = "/restart"

func (h *Handler) handleEnd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	sender := senderID(ctx, chatID)

	if _, err := h.runtime.SendMessage(ctx, sender, restartCommand); err != nil {
		slog.Error("restart conversation", "error", err, "sender_id", sender)
		h.tgLogger.LogError(err, "restart "+sender)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   config.UtterRuntimeUnavailable,
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   config.BotConversationReset,
	})
}
