package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/eduassist/internal/telegram"
)

// Update kinds as the relay routes them.
const (
	KindText       = "text"
	KindCommand    = "command"
	KindDocument   = "document"
	KindQuickReply = "quick_reply"
	KindCallback   = "callback"
	KindOther      = "other"
)

// RelayUpdate is the part of an update the relay acts on.
type RelayUpdate struct {
	Kind     string
	ChatID   int64
	UserID   int64
	Payload  string // command name or quick-reply payload
	Document string
}

// DescribeUpdate classifies an update the way the bot handlers route it.
func DescribeUpdate(update *models.Update) RelayUpdate {
	u := RelayUpdate{Kind: KindOther}
	switch {
	case update.Message != nil:
		msg := update.Message
		u.ChatID = msg.Chat.ID
		if msg.From != nil {
			u.UserID = msg.From.ID
		}
		switch {
		case msg.Document != nil:
			u.Kind = KindDocument
			u.Document = msg.Document.FileName
		case strings.HasPrefix(msg.Text, "/"):
			u.Kind = KindCommand
			u.Payload = strings.Fields(msg.Text)[0]
		case msg.Text != "":
			u.Kind = KindText
		}
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		u.UserID = cq.From.ID
		if cq.Message.Message != nil {
			u.ChatID = cq.Message.Message.Chat.ID
		}
		u.Kind = KindCallback
		if payload, ok := strings.CutPrefix(cq.Data, telegram.QuickReplyPrefix); ok {
			u.Kind = KindQuickReply
			u.Payload = payload
		}
	}
	return u
}

func (u RelayUpdate) logAttrs(ctx context.Context) []any {
	attrs := []any{
		"kind", u.Kind,
		"chat_id", u.ChatID,
		"user_id", u.UserID,
		"sender_id", SenderID(ctx),
	}
	if u.Payload != "" {
		attrs = append(attrs, "payload", u.Payload)
	}
	if u.Document != "" {
		attrs = append(attrs, "document", u.Document)
	}
	return attrs
}

// Logging logs each relayed update with its runtime sender and how long the relay took.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()
			next(ctx, b, update)

			attrs := DescribeUpdate(update).logAttrs(ctx)
			slog.Debug("update relayed", append(attrs, "duration", time.Since(start))...)
		}
	}
}
