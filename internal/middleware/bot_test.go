package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/telegram/telegramtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textUpdate(chatID int64) *models.Update {
	return &models.Update{
		ID: 7,
		Message: &models.Message{
			Chat: models.Chat{ID: chatID, Type: "private"},
			Text: "hola",
		},
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	srv := telegramtest.NewServer(t)
	b := srv.Bot(t)

	calls := 0
	h := RateLimit(NewWindowLimiter(1, time.Minute))(func(context.Context, *bot.Bot, *models.Update) {
		calls++
	})

	h(context.Background(), b, textUpdate(42))
	h(context.Background(), b, textUpdate(42))
	h(context.Background(), b, textUpdate(43))
	h(context.Background(), b, &models.Update{CallbackQuery: &models.CallbackQuery{ID: "cb"}})

	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{config.UtterRateLimited}, srv.Texts())
}

func TestSenderLoader(t *testing.T) {
	var got []string
	h := SenderLoader()(func(ctx context.Context, _ *bot.Bot, _ *models.Update) {
		got = append(got, SenderID(ctx))
	})

	h(context.Background(), nil, textUpdate(42))
	h(context.Background(), nil, &models.Update{CallbackQuery: &models.CallbackQuery{
		Message: models.MaybeInaccessibleMessage{Message: &models.Message{Chat: models.Chat{ID: 9}}},
	}})
	h(context.Background(), nil, &models.Update{})

	assert.Equal(t, []string{"telegram-42", "telegram-9", ""}, got)
}

func TestRecoverSwallowsPanics(t *testing.T) {
	h := Recover(nil)(func(context.Context, *bot.Bot, *models.Update) {
		panic("boom")
	})
	assert.NotPanics(t, func() { h(context.Background(), nil, textUpdate(1)) })
}

func TestRecoverAnswersChatAndReportsToOpsTopic(t *testing.T) {
	srv := telegramtest.NewServer(t)
	b := srv.Bot(t)
	cfg := &config.Config{LogTelegramChatID: -100, LogTopicError: 3}

	h := Recover(cfg)(func(context.Context, *bot.Bot, *models.Update) {
		panic("boom")
	})
	ctx := WithSenderID(context.Background(), "telegram-42")
	assert.NotPanics(t, func() { h(ctx, b, textUpdate(42)) })

	texts := srv.Texts()
	require.Len(t, texts, 2)
	assert.Equal(t, config.UtterDefaultReply, texts[0])
	assert.Contains(t, texts[1], "panic: boom")
	assert.Contains(t, texts[1], "text update from telegram-42")
}

func TestDescribeUpdate(t *testing.T) {
	callback := func(data string) *models.Update {
		return &models.Update{CallbackQuery: &models.CallbackQuery{
			From:    models.User{ID: 5},
			Data:    data,
			Message: models.MaybeInaccessibleMessage{Message: &models.Message{Chat: models.Chat{ID: 9}}},
		}}
	}
	message := func(m models.Message) *models.Update {
		m.Chat = models.Chat{ID: 42}
		m.From = &models.User{ID: 7}
		return &models.Update{Message: &m}
	}

	tests := []struct {
		name   string
		update *models.Update
		want   RelayUpdate
	}{
		{"plain text", message(models.Message{Text: "hola"}),
			RelayUpdate{Kind: KindText, ChatID: 42, UserID: 7}},
		{"command", message(models.Message{Text: "/end ahora"}),
			RelayUpdate{Kind: KindCommand, ChatID: 42, UserID: 7, Payload: "/end"}},
		{"document", message(models.Message{Document: &models.Document{FileName: "tema1.pdf"}}),
			RelayUpdate{Kind: KindDocument, ChatID: 42, UserID: 7, Document: "tema1.pdf"}},
		{"sticker", message(models.Message{}),
			RelayUpdate{Kind: KindOther, ChatID: 42, UserID: 7}},
		{"quick reply", callback("qr:/affirm"),
			RelayUpdate{Kind: KindQuickReply, ChatID: 9, UserID: 5, Payload: "/affirm"}},
		{"foreign callback", callback("menu"),
			RelayUpdate{Kind: KindCallback, ChatID: 9, UserID: 5}},
		{"empty update", &models.Update{}, RelayUpdate{Kind: KindOther}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeUpdate(tt.update))
		})
	}
}

func TestLoggingRecordsSenderAndPayload(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := SenderLoader()(Logging()(func(context.Context, *bot.Bot, *models.Update) {}))
	h(context.Background(), nil, &models.Update{CallbackQuery: &models.CallbackQuery{
		Data:    "qr:/affirm",
		Message: models.MaybeInaccessibleMessage{Message: &models.Message{Chat: models.Chat{ID: 9}}},
	}})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "update relayed", entry["msg"])
	assert.Equal(t, KindQuickReply, entry["kind"])
	assert.Equal(t, "telegram-9", entry["sender_id"])
	assert.Equal(t, "/affirm", entry["payload"])
}
