// Package telegram delivers rendered notifications to Telegram chats.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rocjay1/piggy-notifier/internal/notify"
)

// API is the subset of *tgbotapi.BotAPI the Bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot sends Markdown messages with inline keyboards.
type Bot struct {
	api API
}

// NewBot connects to the Bot API with token.
func NewBot(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	slog.Info("telegram bot authorized", "username", api.Self.UserName)
	return NewBotWithAPI(api), nil
}

// NewBotWithAPI wraps an existing API client.
func NewBotWithAPI(api API) *Bot {
	return &Bot{api: api}
}

// Send delivers msg to chatID. Link previews are disabled.
func (b *Bot) Send(ctx context.Context, chatID int64, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := tgbotapi.NewMessage(chatID, msg.Text)
	out.ParseMode = tgbotapi.ModeMarkdown
	out.DisableWebPagePreview = true
	if keyboard, ok := Keyboard(msg.Buttons); ok {
		out.ReplyMarkup = keyboard
	}

	sent, err := b.api.Send(out)
	if err != nil {
		slog.Error("failed to send telegram message", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	slog.Debug("telegram message sent", "chat_id", chatID, "message_id", sent.MessageID)
	return nil
}

// AnswerCallback acknowledges an inline button press with a short toast.
func (b *Bot) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		slog.Error("failed to answer callback query", "callback_id", callbackID, "error", err)
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}

// Keyboard maps buttons to an inline keyboard with one button per row. It
// reports false when there are no buttons.
func Keyboard(buttons []notify.Button) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(buttons) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		var button tgbotapi.InlineKeyboardButton
		if b.URL != "" {
			button = tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL)
		} else {
			button = tgbotapi.NewInlineKeyboardButtonData(b.Label, b.CallbackData)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
