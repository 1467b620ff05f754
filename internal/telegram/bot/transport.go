package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// API is the subset of the Bot API used to talk to chats
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// TelegramTransport issues outgoing chat actions through the Bot API
type TelegramTransport struct {
	api API
}

// NewTelegramTransport creates a transport over the Bot API
func NewTelegramTransport(api API) *TelegramTransport {
	return &TelegramTransport{api: api}
}

// Send sends a text message and returns its id
func (t *TelegramTransport) Send(ctx context.Context, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = *markup
	}

	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send message: %w: %w", entity.ErrTransport, err)
	}
	return sent.MessageID, nil
}

// SendPhoto sends a photo by URL and returns the message id
func (t *TelegramTransport) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	photo.Caption = caption
	if markup != nil {
		photo.ReplyMarkup = *markup
	}

	sent, err := t.api.Send(photo)
	if err != nil {
		return 0, fmt.Errorf("send photo: %w: %w", entity.ErrTransport, err)
	}
	return sent.MessageID, nil
}

// Edit replaces text and keyboard of a text message
func (t *TelegramTransport) Edit(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if markup != nil {
		edit.ReplyMarkup = markup
	}

	if _, err := t.api.Request(edit); err != nil {
		// Same text and keyboard as before
		if strings.Contains(err.Error(), "message is not modified") {
			ctxzap.Debug(ctx, "message not modified", zap.Int("message_id", messageID))
			return nil
		}
		return fmt.Errorf("edit message: %w: %w", entity.ErrTransport, err)
	}
	return nil
}

// Delete removes a message
func (t *TelegramTransport) Delete(ctx context.Context, chatID int64, messageID int) error {
	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("delete message: %w: %w", entity.ErrTransport, err)
	}
	return nil
}

// AnswerCallback acknowledges a button press, showing text as a toast when not empty
func (t *TelegramTransport) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("answer callback: %w: %w", entity.ErrTransport, err)
	}
	return nil
}
