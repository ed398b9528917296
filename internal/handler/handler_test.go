package handler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/documents"
	"github.com/set-night/eduassist/internal/domain"
	"github.com/set-night/eduassist/internal/middleware"
	"github.com/set-night/eduassist/internal/runtime"
	"github.com/set-night/eduassist/internal/telegram/telegramtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	sender  string
	message string
}

type fakeRuntime struct {
	mu      sync.Mutex
	sent    []sentMessage
	replies []runtime.BotMessage
	err     error
}

func (f *fakeRuntime) SendMessage(_ context.Context, sender, message string) ([]runtime.BotMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{sender: sender, message: message})
	return f.replies, f.err
}

type fixture struct {
	srv *telegramtest.Server
	rt  *fakeRuntime
	h   *Handler
}

func newFixture(t *testing.T, docs *documents.Store) *fixture {
	t.Helper()
	srv := telegramtest.NewServer(t)
	rt := &fakeRuntime{replies: []runtime.BotMessage{{Text: "¡Hola! ¿En qué te ayudo?"}}}
	h := New(Deps{
		Bot:       srv.Bot(t),
		Cfg:       &config.Config{},
		Runtime:   rt,
		Documents: docs,
	})
	return &fixture{srv: srv, rt: rt, h: h}
}

func privateText(chatID int64, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			ID:   1,
			Chat: models.Chat{ID: chatID, Type: "private"},
			Text: text,
		},
	}
}

func TestHandleTextPrivateRelays(t *testing.T) {
	f := newFixture(t, nil)

	f.h.HandleTextPrivate(context.Background(), f.h.bot, privateText(42, "  hola  "))

	assert.Equal(t, []sentMessage{{sender: "telegram-42", message: "hola"}}, f.rt.sent)
	assert.Equal(t, []string{"¡Hola! ¿En qué te ayudo?"}, f.srv.Texts())
}

func TestHandleTextPrivateUsesLoadedSender(t *testing.T) {
	f := newFixture(t, nil)
	ctx := middleware.WithSenderID(context.Background(), "telegram-custom")

	f.h.HandleTextPrivate(ctx, f.h.bot, privateText(42, "hola"))

	require.Len(t, f.rt.sent, 1)
	assert.Equal(t, "telegram-custom", f.rt.sent[0].sender)
}

func TestHandleTextPrivateIgnores(t *testing.T) {
	f := newFixture(t, nil)

	group := privateText(-100, "hola")
	group.Message.Chat.Type = "group"
	f.h.HandleTextPrivate(context.Background(), f.h.bot, group)
	f.h.HandleTextPrivate(context.Background(), f.h.bot, privateText(42, "/settings"))
	f.h.HandleTextPrivate(context.Background(), f.h.bot, privateText(42, "   "))

	assert.Empty(t, f.rt.sent)
	assert.Empty(t, f.srv.Texts())
}

func TestHandleTextPrivateRuntimeDown(t *testing.T) {
	f := newFixture(t, nil)
	f.rt.err = errors.Join(domain.ErrUpstreamUnavailable, errors.New("connection refused"))

	f.h.HandleTextPrivate(context.Background(), f.h.bot, privateText(42, "hola"))

	assert.Equal(t, []string{config.UtterRuntimeUnavailable}, f.srv.Texts())
}

func TestHandleTextPrivateEmptyReplies(t *testing.T) {
	f := newFixture(t, nil)
	f.rt.replies = nil

	f.h.HandleTextPrivate(context.Background(), f.h.bot, privateText(42, "hola"))

	assert.Equal(t, []string{config.UtterDefaultReply}, f.srv.Texts())
}

func TestHandleStart(t *testing.T) {
	f := newFixture(t, nil)

	f.h.handleStart(context.Background(), f.h.bot, privateText(42, "/start"))

	assert.Equal(t, []string{config.BotWelcome}, f.srv.Texts())
	assert.Empty(t, f.rt.sent)
}

func TestHandleEnd(t *testing.T) {
	f := newFixture(t, nil)

	f.h.handleEnd(context.Background(), f.h.bot, privateText(42, "/end"))

	assert.Equal(t, []sentMessage{{sender: "telegram-42", message: restartCommand}}, f.rt.sent)
	assert.Equal(t, []string{config.BotConversationReset}, f.srv.Texts())
}

func TestHandleEndRuntimeDown(t *testing.T) {
	f := newFixture(t, nil)
	f.rt.err = domain.ErrUpstreamUnavailable

	f.h.handleEnd(context.Background(), f.h.bot, privateText(42, "/end"))

	assert.Equal(t, []string{config.UtterRuntimeUnavailable}, f.srv.Texts())
}

func TestHandleQuickReply(t *testing.T) {
	f := newFixture(t, nil)
	update := &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb-1",
			Data: "qr:/afirmar",
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{Chat: models.Chat{ID: 42, Type: "private"}},
			},
		},
	}

	f.h.handleQuickReply(context.Background(), f.h.bot, update)

	assert.Len(t, f.srv.Calls("answerCallbackQuery"), 1)
	assert.Equal(t, []sentMessage{{sender: "telegram-42", message: "/afirmar"}}, f.rt.sent)
}

func TestHandleDocument(t *testing.T) {
	docs, err := documents.NewStore(t.TempDir(), 1024, config.AllowedDocumentTypes)
	require.NoError(t, err)
	f := newFixture(t, docs)
	f.srv.AddFile("file-1", "documents/file_1.txt", "apuntes de álgebra")

	update := privateText(42, "")
	update.Message.Document = &models.Document{FileID: "file-1", FileName: "apuntes.txt", FileSize: 19}

	f.h.HandleDocument(context.Background(), f.h.bot, update)

	listed, err := docs.List()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Contains(t, listed[0].Filename, "_apuntes.txt")

	texts := f.srv.Texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], listed[0].Filename)
}

func TestHandleDocumentRejected(t *testing.T) {
	docs, err := documents.NewStore(t.TempDir(), 8, config.AllowedDocumentTypes)
	require.NoError(t, err)
	f := newFixture(t, docs)

	exe := privateText(42, "")
	exe.Message.Document = &models.Document{FileID: "x", FileName: "setup.exe", FileSize: 4}
	f.h.HandleDocument(context.Background(), f.h.bot, exe)

	big := privateText(42, "")
	big.Message.Document = &models.Document{FileID: "y", FileName: "libro.pdf", FileSize: 9}
	f.h.HandleDocument(context.Background(), f.h.bot, big)

	missing := privateText(42, "")
	missing.Message.Document = &models.Document{FileID: "gone", FileName: "notas.txt", FileSize: 4}
	f.h.HandleDocument(context.Background(), f.h.bot, missing)

	assert.Equal(t, []string{
		config.BotDocumentRejected,
		config.BotDocumentTooLarge,
		config.BotDocumentFailed,
	}, f.srv.Texts())

	listed, err := docs.List()
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestMatchers(t *testing.T) {
	assert.True(t, isPlainText(privateText(1, "hola")))
	assert.False(t, isPlainText(privateText(1, "/start")))
	assert.False(t, isPlainText(&models.Update{}))

	doc := privateText(1, "")
	doc.Message.Document = &models.Document{FileID: "f"}
	assert.True(t, isDocument(doc))
	assert.False(t, isDocument(privateText(1, "hola")))
}
