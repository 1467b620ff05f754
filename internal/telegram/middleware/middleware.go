package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandlerFunc processes a single update
type HandlerFunc func(ctx context.Context, update tgbotapi.Update)

// Sender delivers service messages to a chat
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// updateOrigin extracts the user and chat of an update; zeros when unknown
func updateOrigin(update tgbotapi.Update) (userID, chatID int64) {
	switch {
	case update.Message != nil:
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
		if update.Message.Chat != nil {
			chatID = update.Message.Chat.ID
		}
	case update.CallbackQuery != nil:
		if update.CallbackQuery.From != nil {
			userID = update.CallbackQuery.From.ID
		}
		if update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	}
	return userID, chatID
}
