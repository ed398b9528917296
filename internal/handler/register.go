package handler

import (
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/eduassist/internal/middleware"
	"github.com/set-night/eduassist/internal/telegram"
)

// Register registers all command, message and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/end", bot.MatchTypePrefix, h.handleEnd)

	// Plain text and documents
	h.bot.RegisterHandlerMatchFunc(isPlainText, h.HandleTextPrivate)
	if h.documents != nil {
		h.bot.RegisterHandlerMatchFunc(isDocument, h.HandleDocument)
	}

	// Runtime quick replies
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, telegram.QuickReplyPrefix, bot.MatchTypePrefix, h.handleQuickReply)
}

func isPlainText(update *models.Update) bool {
	return middleware.DescribeUpdate(update).Kind == middleware.KindText
}

func isDocument(update *models.Update) bool {
	return middleware.DescribeUpdate(update).Kind == middleware.KindDocument
}
