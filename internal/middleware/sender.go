package middleware

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/eduassist/internal/config"
)

type ctxKey string

const SenderKey ctxKey = "sender_id"

// SenderID returns the dialogue runtime sender id stored by SenderLoader.
func SenderID(ctx context.Context) string {
	s, _ := ctx.Value(SenderKey).(string)
	return s
}

// WithSenderID stores the dialogue runtime sender id in ctx.
func WithSenderID(ctx context.Context, senderID string) context.Context {
	return context.WithValue(ctx, SenderKey, senderID)
}

// TelegramSenderID maps a chat to its dialogue runtime sender id.
func TelegramSenderID(chatID int64) string {
	return config.TelegramSenderPrefix + strconv.FormatInt(chatID, 10)
}

// SenderLoader returns middleware that derives the runtime sender id from the chat.
func SenderLoader() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var chatID int64
			if update.Message != nil {
				chatID = update.Message.Chat.ID
			} else if update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil {
				chatID = update.CallbackQuery.Message.Message.Chat.ID
			}

			if chatID != 0 {
				ctx = WithSenderID(ctx, TelegramSenderID(chatID))
			}
			next(ctx, b, update)
		}
	}
}
