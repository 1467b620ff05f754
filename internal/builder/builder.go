package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Alex-Men-VL/sell-fish/internal/api"
	"github.com/Alex-Men-VL/sell-fish/internal/auth"
	"github.com/Alex-Men-VL/sell-fish/internal/config"
	"github.com/Alex-Men-VL/sell-fish/internal/integration/moltin"
	"github.com/Alex-Men-VL/sell-fish/internal/pkg/logger"
	pkgRetry "github.com/Alex-Men-VL/sell-fish/internal/pkg/retry"
	"github.com/Alex-Men-VL/sell-fish/internal/repository"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/handlers"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// shop is the commerce backend plus token minting
type shop interface {
	telegram.Shop
	auth.TokenSource
}

// Build wires the bot, its storage and the ops HTTP server
func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	ctx = ctxzap.ToContext(ctx, log)

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("storage_backend", cfg.StorageBackend),
	)

	botAPI, err := setupBotAPI(ctx, cfg.TelegramCfg.BotToken, &cfg.StartupRetry)
	if err != nil {
		return nil, fmt.Errorf("authorize telegram bot: %w", err)
	}
	log.Info("Authorized on telegram", zap.String("bot", botAPI.Self.UserName))

	// Forward error logs to the developer chat
	if cfg.TelegramCfg.DevChatID != 0 {
		devAPI, err := setupBotAPI(ctx, cfg.TelegramCfg.DevBotToken, &cfg.StartupRetry)
		if err != nil {
			return nil, fmt.Errorf("authorize developer bot: %w", err)
		}
		log = logger.WithTelegramForwarding(log, devAPI, cfg.TelegramCfg.DevChatID)
		log.Info("Error logs are forwarded to developer chat", zap.Int64("chat_id", cfg.TelegramCfg.DevChatID))
	}

	// Storage backends
	var (
		db       *pgxpool.Pool
		storage  state.Storage
		registry handlers.CustomerRegistry
	)
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		db, err = setupDatabase(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		log.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("Database migrations completed successfully")

		storage = repository.NewTelegramStateRepository(db)
		registry = repository.NewCustomerRepository(db)
	default:
		storage = state.NewMemoryStorage()
		registry = repository.NewCustomerMemoryRepository()
	}
	log.Info("Repositories initialized")

	// Commerce backend (with mock support)
	var backend shop
	if cfg.EnableMocks {
		log.Info("Using mock commerce connector")
		backend = moltin.NewMockConnector(cfg.MoltinCfg.Currency, log)
	} else {
		log.Info("Using real commerce connector", zap.String("url", cfg.MoltinCfg.Url))
		backend = moltin.NewConnector(cfg.MoltinCfg, log)
	}
	tokens := auth.NewTokenCache(backend, cfg.MoltinCfg.ClientID, cfg.MoltinCfg.ClientSecret)

	bot := telegram.NewBot(botAPI, &cfg.TelegramCfg, storage, backend, registry, tokens, log)

	// Webhook is served by the ops server
	var webhook http.Handler
	if cfg.TelegramCfg.UseWebhook {
		webhook = bot.WebhookHandler()
	}
	router := api.SetupRouter(cfg.TelegramCfg.WebhookPath, webhook, log)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	return &App{
		server: server,
		bot:    bot,
		db:     db,
		logger: log,
	}, nil
}

// setupBotAPI authorizes a bot token, retrying while the Bot API is unreachable
func setupBotAPI(ctx context.Context, token string, retryCfg *pkgRetry.RetryConfig) (*tgbotapi.BotAPI, error) {
	var botAPI *tgbotapi.BotAPI
	err := pkgRetry.Do(ctx, retryCfg, "authorize_bot", func() error {
		var err error
		botAPI, err = tgbotapi.NewBotAPI(token)
		return err
	})
	if err != nil {
		return nil, err
	}
	return botAPI, nil
}
