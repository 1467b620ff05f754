package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	pkgRetry "github.com/Alex-Men-VL/sell-fish/internal/pkg/retry"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends for dialogue state and the customer registry
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	// Ops HTTP server (health check, webhook)
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Storage configuration
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`

	// Database configuration (postgres backend only)
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Commerce API configuration
	MoltinCfg MoltinConfig `envPrefix:"MOLTIN_"`

	// Startup retries (database ping, bot authorization)
	StartupRetry pkgRetry.RetryConfig `envPrefix:"STARTUP_RETRY_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN,notEmpty"`
	UseWebhook         bool   `env:"USE_WEBHOOK" envDefault:"false"`
	WebhookURL         string `env:"WEBHOOK_URL"`
	WebhookPath        string `env:"WEBHOOK_PATH" envDefault:"/telegram/webhook"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"15"` // seconds

	// Error logs are forwarded to this chat when set
	DevBotToken string `env:"DEV_BOT_TOKEN"`
	DevChatID   int64  `env:"DEV_CHAT_ID"`
}

// MoltinConfig holds commerce API configuration
type MoltinConfig struct {
	HTTPClientConfig
	ClientID      string        `env:"CLIENT_ID"`
	ClientSecret  string        `env:"CLIENT_SECRET"`
	Currency      string        `env:"CURRENCY" envDefault:"USD"`
	ImageCacheTTL time.Duration `env:"IMAGE_CACHE_TTL" envDefault:"30m"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"15s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"5s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://api.moltin.com"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment and validates it
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.StartupRetry.Attempts == 0 {
		cfg.StartupRetry = *pkgRetry.DefaultRetryConfig()
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		errors = append(errors, fmt.Sprintf("STORAGE_BACKEND must be %q or %q, got %q", StorageMemory, StoragePostgres, cfg.StorageBackend))
	}

	// Validate Telegram configuration
	if cfg.TelegramCfg.UseWebhook && cfg.TelegramCfg.WebhookURL == "" {
		errors = append(errors, "TELEGRAM_WEBHOOK_URL is required when TELEGRAM_USE_WEBHOOK=true")
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 120 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 120, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if cfg.TelegramCfg.DevChatID != 0 && cfg.TelegramCfg.DevBotToken == "" {
		errors = append(errors, "TELEGRAM_DEV_BOT_TOKEN is required when TELEGRAM_DEV_CHAT_ID is set")
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if !cfg.EnableMocks && (cfg.MoltinCfg.ClientID == "" || cfg.MoltinCfg.ClientSecret == "") {
		errors = append(errors, "MOLTIN_CLIENT_ID and MOLTIN_CLIENT_SECRET are required unless ENABLE_MOCKS=true")
	}

	if len(cfg.MoltinCfg.Currency) != 3 {
		errors = append(errors, fmt.Sprintf("MOLTIN_CURRENCY must be an ISO 4217 code, got %q", cfg.MoltinCfg.Currency))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
