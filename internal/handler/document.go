package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/domain"
	tg "github.com/set-night/eduassist/internal/telegram"
)

// HandleDocument stores documents sent in private chats in the upload directory.
func (h *Handler) HandleDocument(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Document == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	doc := update.Message.Document
	reply := func(text string) {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	}

	if !h.documents.Allowed(doc.FileName) {
		reply(config.BotDocumentRejected)
		return
	}
	if int64(doc.FileSize) > h.documents.MaxBytes() {
		reply(config.BotDocumentTooLarge)
		return
	}

	body, _, err := tg.OpenFile(ctx, b, doc.FileID)
	if err != nil {
		slog.Error("download document", "error", err, "file_id", doc.FileID)
		reply(config.BotDocumentFailed)
		return
	}
	defer body.Close()

	saved, err := h.documents.Save(doc.FileName, body)
	switch {
	case errors.Is(err, domain.ErrFileTooLarge):
		reply(config.BotDocumentTooLarge)
		return
	case errors.Is(err, domain.ErrFileTypeNotAllowed), errors.Is(err, domain.ErrEmptyFileName):
		reply(config.BotDocumentRejected)
		return
	case err != nil:
		slog.Error("save document", "error", err, "filename", doc.FileName)
		h.tgLogger.LogError(err, "save document "+doc.FileName)
		reply(config.BotDocumentFailed)
		return
	}

	sender := senderID(ctx, chatID)
	slog.Info("document saved", "sender_id", sender, "filename", saved.Filename, "size", saved.Size)
	h.tgLogger.LogDocument(sender, saved.Filename, saved.Size)
	reply(fmt.Sprintf(config.BotDocumentSavedFmt, saved.Filename))
}
