package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/runtime"
)

// SendLongMessage sends text as plain messages within the Telegram length limit.
// markup, when set, is attached to the last part.
func SendLongMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) error {
	parts := SplitMessage(text, config.MaxTelegramMessageLen)
	for i, part := range parts {
		params := &bot.SendMessageParams{
			ChatID: chatID,
			Text:   part,
		}
		if markup != nil && i == len(parts)-1 {
			params.ReplyMarkup = markup
		}
		if _, err := b.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("send message part %d/%d: %w", i+1, len(parts), err)
		}
	}
	return nil
}

// SendReplies delivers runtime replies in order. An empty reply list is answered with
// the default utterance. Images are sent by URL.
func SendReplies(ctx context.Context, b *bot.Bot, chatID int64, replies []runtime.BotMessage) error {
	if len(replies) == 0 {
		replies = []runtime.BotMessage{{Text: config.UtterDefaultReply}}
	}

	for _, reply := range replies {
		var markup models.ReplyMarkup
		if kb := QuickReplies(reply.Buttons); kb != nil {
			markup = kb
		}

		if reply.Text != "" {
			if err := SendLongMessage(ctx, b, chatID, reply.Text, markup); err != nil {
				return err
			}
			markup = nil
		}

		if reply.Image != "" {
			params := &bot.SendPhotoParams{
				ChatID: chatID,
				Photo:  &models.InputFileString{Data: reply.Image},
			}
			if markup != nil {
				params.ReplyMarkup = markup
			}
			if _, err := b.SendPhoto(ctx, params); err != nil {
				return fmt.Errorf("send photo: %w", err)
			}
		}
	}
	return nil
}

// StartTyping sends the "typing..." action until the returned cancel function is called.
func StartTyping(ctx context.Context, b *bot.Bot, chatID int64) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(config.TypingInterval)
		defer ticker.Stop()
		for {
			b.SendChatAction(ctx, &bot.SendChatActionParams{
				ChatID: chatID,
				Action: models.ChatActionTyping,
			})
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return cancel
}
