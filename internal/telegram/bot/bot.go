package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Alex-Men-VL/sell-fish/internal/config"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/handlers"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/middleware"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const webhookQueueSize = 100

// Dispatcher runs the dialogue state machine for a single event
type Dispatcher interface {
	Dispatch(ctx context.Context, ev *handlers.Event) error
}

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	dispatcher  Dispatcher
	transport   handlers.Transport
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	updatesChan tgbotapi.UpdatesChannel
	webhookChan chan tgbotapi.Update
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// New creates a new Telegram bot over an authorized API client
func New(
	api *tgbotapi.BotAPI,
	cfg *config.TelegramConfig,
	dispatcher Dispatcher,
	transport handlers.Transport,
	logger *zap.Logger,
) *Bot {
	return &Bot{
		api:         api,
		cfg:         cfg,
		dispatcher:  dispatcher,
		transport:   transport,
		logger:      logger,
		loggingMW:   middleware.NewLoggingMiddleware(logger),
		recoveryMW:  middleware.NewRecoveryMiddleware(api),
		rateLimitMW: middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
		webhookChan: make(chan tgbotapi.Update, webhookQueueSize),
		stopChan:    make(chan struct{}),
	}
}

// Start starts receiving updates by long polling or through the webhook
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot", zap.Bool("webhook", b.cfg.UseWebhook))

	if b.cfg.UseWebhook {
		hookURL := strings.TrimRight(b.cfg.WebhookURL, "/") + b.cfg.WebhookPath
		wh, err := tgbotapi.NewWebhook(hookURL)
		if err != nil {
			return fmt.Errorf("build webhook config: %w", err)
		}
		if _, err := b.api.Request(wh); err != nil {
			return fmt.Errorf("set webhook: %w", err)
		}
		b.updatesChan = b.webhookChan
	} else {
		if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			return fmt.Errorf("delete webhook: %w", err)
		}

		u := tgbotapi.NewUpdate(0)
		u.Timeout = b.cfg.UpdateTimeout
		b.updatesChan = b.api.GetUpdatesChan(u)
	}

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	// Signal to stop receiving new updates
	close(b.stopChan)
	if !b.cfg.UseWebhook {
		b.api.StopReceivingUpdates()
	}
	b.rateLimitMW.Close()

	// Wait for all active handlers to complete
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return errors.New("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// WebhookHandler accepts updates pushed by Telegram
func (b *Bot) WebhookHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		update, err := b.api.HandleUpdate(r)
		if err != nil {
			ctxzap.Warn(r.Context(), "invalid webhook update", zap.Error(err))
			http.Error(w, "invalid update", http.StatusBadRequest)
			return
		}

		select {
		case b.webhookChan <- *update:
			w.WriteHeader(http.StatusOK)
		case <-b.stopChan:
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
		case <-r.Context().Done():
			ctxzap.Debug(r.Context(), "webhook request cancelled before the update was queued")
			http.Error(w, "request cancelled", http.StatusServiceUnavailable)
		}
	})
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				ctxzap.Info(ctx, "updates channel closed")
				return
			}
			// Process update with middleware in separate goroutine
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(ctx, u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	// Rate limiter middleware (first to check)
	b.rateLimitMW.Handle(ctx, update, func(ctx context.Context, u tgbotapi.Update) {
		// Logging middleware
		b.loggingMW.Handle(ctx, u, func(ctx context.Context, u2 tgbotapi.Update) {
			// Recovery middleware
			b.recoveryMW.Handle(ctx, u2, b.handleUpdate)
		})
	})
}

// handleUpdate routes update to the dispatcher
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil && update.Message.IsCommand() && update.Message.Command() == "help" {
		if _, err := b.transport.Send(ctx, update.Message.Chat.ID, render.MsgHelp, nil); err != nil {
			ctxzap.Error(ctx, "failed to send help message", zap.Error(err))
		}
		return
	}

	ev, ok := NewEvent(update)
	if !ok {
		ctxzap.Debug(ctx, "update ignored")
		return
	}

	if err := b.dispatcher.Dispatch(ctx, ev); err != nil {
		handlers.ReportError(ctx, b.transport, ev, err)
		return
	}

	// Every button press gets exactly one answer
	if ev.IsCallback() && !ev.Answered() {
		if err := b.transport.AnswerCallback(ctx, ev.CallbackID, ""); err != nil {
			ctxzap.Warn(ctx, "failed to answer callback", zap.Error(err))
		}
	}
}

// NewEvent normalizes a text message or a button press; other updates are not events
func NewEvent(update tgbotapi.Update) (*handlers.Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		query := update.CallbackQuery
		if query.Message == nil || query.Message.Chat == nil {
			return nil, false
		}

		ev := &handlers.Event{
			ChatID:         query.Message.Chat.ID,
			MessageID:      query.Message.MessageID,
			MessageIsPhoto: len(query.Message.Photo) > 0,
			CallbackData:   query.Data,
			CallbackID:     query.ID,
		}
		if query.From != nil {
			ev.UserID = query.From.ID
			ev.Username = query.From.UserName
		}
		return ev, true

	case update.Message != nil:
		message := update.Message
		if message.Chat == nil || message.Text == "" {
			return nil, false
		}

		text := message.Text
		if message.IsCommand() && message.Command() == "start" {
			text = handlers.CommandStart
		}

		ev := &handlers.Event{
			ChatID:    message.Chat.ID,
			MessageID: message.MessageID,
			Text:      text,
		}
		if message.From != nil {
			ev.UserID = message.From.ID
			ev.Username = message.From.UserName
		}
		return ev, true
	}

	return nil, false
}
