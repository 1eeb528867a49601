package telegram

import (
	"errors"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/present"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/services"
)

// Send error classes, also used as the bot_send_errors_total label.
const (
	classNotModified     = "not_modified"
	classTooManyRequests = "too_many_requests"
	classOther           = "other"
)

// classify sorts a Bot API failure by how the user should be answered.
func classify(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return classTooManyRequests
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "message is not modified"):
		return classNotModified
	case strings.Contains(msg, "too many requests"):
		return classTooManyRequests
	default:
		return classOther
	}
}

// keyboard builds a single-row inline keyboard, or nil without controls.
func keyboard(controls []present.Control) *tgbotapi.InlineKeyboardMarkup {
	if len(controls) == 0 {
		return nil
	}
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(controls))
	for _, c := range controls {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Label, c.Action))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(row)
	return &kb
}

func parseMode(reply services.Reply) string {
	if reply.Markdown {
		return tgbotapi.ModeMarkdownV2
	}
	return ""
}

func messageConfig(chatID int64, reply services.Reply) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	msg.ParseMode = parseMode(reply)
	msg.DisableWebPagePreview = true
	if kb := keyboard(reply.Controls); kb != nil {
		msg.ReplyMarkup = *kb
	}
	return msg
}

// editConfig replaces the text and keyboard of an existing message. A
// reply without controls removes the keyboard.
func editConfig(chatID int64, messageID int, reply services.Reply) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, reply.Text)
	if kb := keyboard(reply.Controls); kb != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, reply.Text, *kb)
	}
	edit.ParseMode = parseMode(reply)
	edit.DisableWebPagePreview = true
	return edit
}

func refreshedConfig(chatID int64) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, present.RefreshedMarkdown)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}
