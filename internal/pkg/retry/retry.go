package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	defaultAttempts = 5
	defaultDelay    = 500 * time.Millisecond
	defaultMaxDelay = 5 * time.Second
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS"`
	Delay    time.Duration `env:"DELAY"`
	MaxDelay time.Duration `env:"MAX_DELAY"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}

// Do runs op until it succeeds or the attempts are exhausted, logging every failed attempt
func Do(ctx context.Context, cfg *RetryConfig, action string, op func() error) error {
	opts := append(cfg.ToRetryOptions(),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "attempt failed, retrying",
				zap.String("action", action),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)

	return retry.Do(op, opts...)
}
