package telegram

import (
	"context"
	"net/http"

	"github.com/Alex-Men-VL/sell-fish/internal/config"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/bot"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/dispatcher"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/handlers"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/keyboard"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
	WebhookHandler() http.Handler
}

// Shop is the remote commerce backend: catalog, carts and customers
type Shop interface {
	handlers.Catalog
	handlers.Cart
	handlers.Customers
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	api *tgbotapi.BotAPI,
	cfg *config.TelegramConfig,
	storage state.Storage,
	shop Shop,
	registry handlers.CustomerRegistry,
	tokens dispatcher.TokenProvider,
	logger *zap.Logger,
) Bot {
	transport := bot.NewTelegramTransport(api)
	kb := keyboard.NewBuilder()

	hs := []handlers.Handler{
		handlers.NewStartHandler(shop, transport, kb),
		handlers.NewMenuHandler(shop, shop, transport, kb),
		handlers.NewDescriptionHandler(shop, shop, transport, kb),
		handlers.NewCartHandler(shop, shop, transport, kb),
		handlers.NewEmailHandler(shop, registry, transport, kb),
	}
	d := dispatcher.New(state.NewManager(storage), tokens, hs...)

	logger.Info("telegram handlers registered", zap.Int("handler_count", len(hs)))

	return bot.New(api, cfg, d, transport, logger)
}
