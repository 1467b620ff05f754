package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alex-Men-VL/sell-fish/internal/telegram"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App represents the application with all its components
type App struct {
	server *http.Server
	bot    telegram.Bot
	db     *pgxpool.Pool
	logger *zap.Logger
}

// Run starts the ops server and the bot, then blocks until a shutdown signal
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start HTTP server in goroutine
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	if err := a.bot.Start(ctx); err != nil {
		a.logger.Error("Failed to start telegram bot", zap.Error(err))
		_ = a.shutdown(false)
		return err
	}

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		_ = a.shutdown(true)
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	// Graceful shutdown
	return a.shutdown(true)
}

// shutdown stops the bot first so no update is lost between server and bot
func (a *App) shutdown(botStarted bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var errs []error

	if botStarted {
		a.logger.Info("Stopping telegram bot")
		if err := a.bot.Stop(); err != nil {
			a.logger.Error("Telegram bot stop error", zap.Error(err))
			errs = append(errs, err)
		}
	}

	a.logger.Info("Shutting down server gracefully")
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		errs = append(errs, err)
	}

	if a.db != nil {
		a.logger.Info("Closing database connections")
		a.db.Close()
	}

	a.logger.Info("Application stopped")
	_ = a.logger.Sync()

	return errors.Join(errs...)
}
