package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/set-night/eduassist/internal/config"
)

// TelegramLogger mirrors operational events into topics of an ops chat.
// A nil logger or an unset chat id disables it.
type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError    LogType = "error"
	LogTypeDocument LogType = "document"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.topicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > config.MaxTelegramMessageLen {
		message = string([]rune(message)[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, context string) {
	l.Log(LogTypeError, fmt.Sprintf("❌ Error\n\nContext: %s\nError: %s\nTime: %s",
		context, err.Error(), time.Now().Format("2006-01-02 15:04:05")))
}

func (l *TelegramLogger) LogDocument(senderID, filename string, size int64) {
	l.Log(LogTypeDocument, fmt.Sprintf("📄 Document uploaded\n\nSender: %s\nFile: %s\nSize: %d bytes",
		senderID, filename, size))
}

func (l *TelegramLogger) topicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeDocument:
		return l.cfg.LogTopicDocuments
	default:
		return 0
	}
}
