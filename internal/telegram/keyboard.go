package telegram

import (
	"log/slog"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/runtime"
)

// QuickReplyPrefix marks callback data that carries a runtime button payload.
const QuickReplyPrefix = "qr:"

func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

func URLButton(text, url string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text: text,
		URL:  url,
	}
}

func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// QuickReplies renders runtime buttons as a one-column inline keyboard. Link payloads
// become URL buttons; other payloads travel as callback data. Returns nil when no
// button can be rendered.
func QuickReplies(buttons []runtime.Button) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, btn := range buttons {
		if btn.Title == "" {
			continue
		}
		payload := btn.Payload
		if payload == "" {
			payload = btn.Title
		}

		if strings.HasPrefix(payload, "https://") || strings.HasPrefix(payload, "http://") {
			rows = append(rows, ButtonRow(URLButton(btn.Title, payload)))
			continue
		}

		data := QuickReplyPrefix + payload
		if len(data) > config.MaxCallbackDataLen {
			slog.Warn("quick reply payload too long, dropping button", "title", btn.Title, "bytes", len(data))
			continue
		}
		rows = append(rows, ButtonRow(InlineButton(btn.Title, data)))
	}

	if len(rows) == 0 {
		return nil
	}
	return InlineKeyboard(rows...)
}
