package telegram

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/runtime"
	"github.com/set-night/eduassist/internal/telegram/telegramtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   []string
	}{
		{name: "fits", text: "hola", maxLen: 10, want: []string{"hola"}},
		{name: "hard cut", text: "abcdefghij", maxLen: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "space", text: "aaaa bbbb", maxLen: 6, want: []string{"aaaa ", "bbbb"}},
		{name: "paragraph first", text: "one two\n\nthree", maxLen: 12, want: []string{"one two\n\n", "three"}},
		{name: "multibyte", text: "ñññññ", maxLen: 2, want: []string{"ññ", "ññ", "ñ"}},
		{name: "early separator ignored", text: "a bcdefgh", maxLen: 6, want: []string{"a bcde", "fgh"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitMessage(tt.text, tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, strings.Join(got, ""))
		})
	}
}

func TestQuickReplies(t *testing.T) {
	kb := QuickReplies([]runtime.Button{
		{Title: "Sí", Payload: "/afirmar"},
		{Title: "Guía", Payload: "https://example.com/guia"},
		{Title: "Sin payload"},
		{Title: "", Payload: "/ignorado"},
		{Title: "Largo", Payload: "/" + strings.Repeat("x", config.MaxCallbackDataLen)},
	})
	require.NotNil(t, kb)
	require.Len(t, kb.InlineKeyboard, 3)

	assert.Equal(t, "qr:/afirmar", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "https://example.com/guia", kb.InlineKeyboard[1][0].URL)
	assert.Empty(t, kb.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "qr:Sin payload", kb.InlineKeyboard[2][0].CallbackData)

	assert.Nil(t, QuickReplies(nil))
}

func TestSendReplies(t *testing.T) {
	srv := telegramtest.NewServer(t)
	b := srv.Bot(t)

	err := SendReplies(context.Background(), b, 42, []runtime.BotMessage{
		{Text: "Hola"},
		{Text: "¿Te ayudo?", Buttons: []runtime.Button{{Title: "Sí", Payload: "/afirmar"}}},
		{Image: "https://example.com/a.png"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hola", "¿Te ayudo?"}, srv.Texts())
	calls := srv.Calls("sendMessage")
	assert.Contains(t, calls[1].Params["reply_markup"], "qr:/afirmar")

	photos := srv.Calls("sendPhoto")
	require.Len(t, photos, 1)
	assert.Equal(t, "https://example.com/a.png", photos[0].Params["photo"])
}

func TestSendRepliesEmpty(t *testing.T) {
	srv := telegramtest.NewServer(t)

	require.NoError(t, SendReplies(context.Background(), srv.Bot(t), 42, nil))
	assert.Equal(t, []string{config.UtterDefaultReply}, srv.Texts())
}

func TestSendLongMessage(t *testing.T) {
	srv := telegramtest.NewServer(t)

	text := strings.Repeat("a", config.MaxTelegramMessageLen+10)
	require.NoError(t, SendLongMessage(context.Background(), srv.Bot(t), 42, text, nil))

	texts := srv.Texts()
	require.Len(t, texts, 2)
	assert.Len(t, texts[0], config.MaxTelegramMessageLen)
	assert.Len(t, texts[1], 10)
}

func TestOpenFile(t *testing.T) {
	srv := telegramtest.NewServer(t)
	srv.AddFile("doc-1", "documents/file_1.txt", "apuntes de clase")
	b := srv.Bot(t)

	body, path, err := OpenFile(context.Background(), b, "doc-1")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "apuntes de clase", string(data))
	assert.Equal(t, "documents/file_1.txt", path)

	_, _, err = OpenFile(context.Background(), b, "missing")
	assert.Error(t, err)
}

func TestTelegramLoggerDisabled(t *testing.T) {
	var l *TelegramLogger
	assert.NotPanics(t, func() { l.LogError(assert.AnError, "ctx") })

	srv := telegramtest.NewServer(t)
	l = NewTelegramLogger(srv.Bot(t), &config.Config{})
	l.LogError(assert.AnError, "ctx")
	assert.Empty(t, srv.Calls("sendMessage"))
}

func TestTelegramLoggerRoutesTopics(t *testing.T) {
	srv := telegramtest.NewServer(t)
	l := NewTelegramLogger(srv.Bot(t), &config.Config{
		LogTelegramChatID: -100,
		LogTopicError:     7,
	})

	l.LogError(assert.AnError, "relay telegram-42")
	l.LogDocument("telegram-42", "a.pdf", 10)

	calls := srv.Calls("sendMessage")
	require.Len(t, calls, 1)
	assert.Equal(t, "7", calls[0].Params["message_thread_id"])
	assert.Contains(t, calls[0].Params["text"], "relay telegram-42")
}
