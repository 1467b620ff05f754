package middleware

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// LoggingMiddleware attaches a request-scoped logger and logs all incoming updates
type LoggingMiddleware struct {
	logger *zap.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger,
	}
}

// Handle logs the update
func (m *LoggingMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next HandlerFunc) {
	start := time.Now()
	userID, chatID := updateOrigin(update)

	var messageType string
	switch {
	case update.CallbackQuery != nil:
		messageType = "callback"
	case update.Message != nil && update.Message.IsCommand():
		messageType = "command"
	case update.Message != nil && update.Message.Text != "":
		messageType = "text"
	default:
		messageType = "other"
	}

	requestLogger := m.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.Int("update_id", update.UpdateID),
		zap.Int64("user_id", userID),
		zap.Int64("chat_id", chatID),
	)
	ctx = ctxzap.ToContext(ctx, requestLogger)

	requestLogger.Info("telegram update received", zap.String("type", messageType))

	// Call next handler
	next(ctx, update)

	requestLogger.Info("telegram update processed", zap.Duration("duration", time.Since(start)))
}
