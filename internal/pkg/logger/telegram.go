package logger

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// telegram message limit is 4096 characters
const maxForwardedLength = 4000

// ChatSender delivers a text message to a chat
type ChatSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// telegramCore forwards log entries at or above its level to an operator chat
type telegramCore struct {
	zapcore.LevelEnabler
	sender ChatSender
	chatID int64
	fields []zapcore.Field
}

// NewTelegramCore creates a core that forwards entries to chatID.
// Delivery failures are swallowed: the operator chat must never break the main log.
func NewTelegramCore(sender ChatSender, chatID int64, level zapcore.LevelEnabler) zapcore.Core {
	return &telegramCore{
		LevelEnabler: level,
		sender:       sender,
		chatID:       chatID,
	}
}

// WithTelegramForwarding tees logger output into the operator chat
func WithTelegramForwarding(logger *zap.Logger, sender ChatSender, chatID int64) *zap.Logger {
	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, NewTelegramCore(sender, chatID, zapcore.ErrorLevel))
	}))
}

func (c *telegramCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field{}, c.fields...), fields...)
	return &clone
}

func (c *telegramCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *telegramCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	text := formatEntry(entry, append(append([]zapcore.Field{}, c.fields...), fields...))
	_, _ = c.sender.Send(tgbotapi.NewMessage(c.chatID, text))
	return nil
}

func (c *telegramCore) Sync() error {
	return nil
}

func formatEntry(entry zapcore.Entry, fields []zapcore.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", strings.ToUpper(entry.Level.String()), entry.Message)
	for key, value := range enc.Fields {
		fmt.Fprintf(&sb, "\n%s: %v", key, value)
	}

	text := sb.String()
	if utf8.RuneCountInString(text) > maxForwardedLength {
		runes := []rune(text)
		text = string(runes[:maxForwardedLength]) + "…"
	}

	return text
}
