package handlers

import (
	"context"
	"errors"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
	SeverityCritical
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// HandlerError represents a structured error with user message and logging info
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

// classifyHandlerError analyzes an error and returns a HandlerError with appropriate severity and messages
func classifyHandlerError(err error) *HandlerError {
	handlerErr := &HandlerError{
		Err:         err,
		UserMessage: render.ClassifyError(err),
		LogMessage:  "handler error",
		Severity:    SeverityError,
	}

	switch {
	case err == nil:
		handlerErr.LogMessage = "unknown error"
		handlerErr.Severity = SeverityWarning
	case errors.Is(err, entity.ErrUnknownState):
		handlerErr.LogMessage = "no handler for dialogue state"
		handlerErr.Severity = SeverityWarning
	case errors.Is(err, entity.ErrNotFound):
		handlerErr.LogMessage = "remote resource not found"
		handlerErr.Severity = SeverityWarning
	case errors.Is(err, context.Canceled):
		handlerErr.LogMessage = "operation canceled"
		handlerErr.Severity = SeverityWarning
	case errors.Is(err, entity.ErrAuth):
		handlerErr.LogMessage = "commerce API authorization failed"
		handlerErr.Severity = SeverityCritical
	case errors.Is(err, entity.ErrTransport):
		handlerErr.LogMessage = "telegram request failed"
	}

	return handlerErr
}

// ReportError logs a failed turn with appropriate severity and tells the user.
// A pending callback gets the message as a toast, text messages get a reply.
func ReportError(ctx context.Context, transport Transport, ev *Event, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err)
	fields := []zap.Field{
		zap.Error(handlerErr.Err),
		zap.Int64("chat_id", ev.ChatID),
		zap.String("severity", handlerErr.Severity.String()),
	}

	// Log with appropriate severity level
	switch handlerErr.Severity {
	case SeverityCritical, SeverityError:
		ctxzap.Error(ctx, handlerErr.LogMessage, fields...)
	case SeverityWarning:
		ctxzap.Warn(ctx, handlerErr.LogMessage, fields...)
	}

	if ev.IsCallback() && !ev.answered {
		ev.answered = true
		if aerr := transport.AnswerCallback(ctx, ev.CallbackID, handlerErr.UserMessage); aerr != nil {
			ctxzap.Warn(ctx, "failed to answer callback", zap.Error(aerr))
		}
		return
	}

	if _, serr := transport.Send(ctx, ev.ChatID, handlerErr.UserMessage, nil); serr != nil {
		ctxzap.Warn(ctx, "failed to send error message", zap.Error(serr))
	}
}
