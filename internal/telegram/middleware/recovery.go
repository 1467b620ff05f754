package middleware

import (
	"context"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const msgPanic = "❌ Произошла ошибка. Попробуйте ещё раз или нажмите /start"

// RecoveryMiddleware recovers from panics
type RecoveryMiddleware struct {
	sender Sender
}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware(sender Sender) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		sender: sender,
	}
}

// Handle recovers from panics
func (m *RecoveryMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next HandlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			ctxzap.Error(ctx, "panic recovered in telegram handler",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
				zap.Int("update_id", update.UpdateID),
			)

			// Try to send error message to user
			if _, chatID := updateOrigin(update); chatID != 0 {
				if _, err := m.sender.Send(tgbotapi.NewMessage(chatID, msgPanic)); err != nil {
					ctxzap.Error(ctx, "failed to send error message",
						zap.Error(err),
						zap.Int64("chat_id", chatID),
					)
				}
			}
		}
	}()

	next(ctx, update)
}
