package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/telegram"
)

// Recover stops a panicking handler, answers the chat with the default utterance
// and reports the panic to the ops error topic when cfg configures one.
func Recover(cfg *config.Config) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				u := DescribeUpdate(update)
				slog.Error("panic recovered in handler",
					append(u.logAttrs(ctx), "panic", r, "update_id", update.ID, "stack", string(debug.Stack()))...,
				)
				if b == nil {
					return
				}
				if u.ChatID != 0 {
					if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
						ChatID: u.ChatID,
						Text:   config.UtterDefaultReply,
					}); err != nil {
						slog.Error("failed to notify chat after panic", "chat_id", u.ChatID, "error", err)
					}
				}
				if cfg != nil {
					telegram.NewTelegramLogger(b, cfg).LogError(fmt.Errorf("panic: %v", r),
						fmt.Sprintf("%s update from %s", u.Kind, SenderID(ctx)))
				}
			}()
			next(ctx, b, update)
		}
	}
}
