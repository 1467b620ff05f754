// Package auth keeps the commerce API bearer token shared by all chats.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// TokenSource mints a new token from client credentials
type TokenSource interface {
	GetToken(ctx context.Context, clientID, clientSecret string) (*entity.Token, error)
}

// TokenCache holds at most one token and refreshes it lazily when it has expired.
// The lock is held across the refresh, so concurrent callers wait for a single refresh
// instead of racing to publish their own token.
type TokenCache struct {
	mu           sync.Mutex
	source       TokenSource
	clientID     string
	clientSecret string
	now          func() time.Time
	token        *entity.Token
	refreshes    int
}

type Option func(*TokenCache)

// WithClock overrides the wall clock
func WithClock(now func() time.Time) Option {
	return func(c *TokenCache) {
		c.now = now
	}
}

func NewTokenCache(source TokenSource, clientID, clientSecret string, opts ...Option) *TokenCache {
	c := &TokenCache{
		source:       source,
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns a token that has not expired at call time
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.token.Expired(c.now()) {
		return c.token.Value, nil
	}

	token, err := c.source.GetToken(ctx, c.clientID, c.clientSecret)
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w: %w", entity.ErrAuth, err)
	}
	if token.Expired(c.now()) {
		return "", fmt.Errorf("refresh access token: %w: issued token is already expired", entity.ErrAuth)
	}

	c.token = token
	c.refreshes++

	ctxzap.Info(ctx, "access token refreshed",
		zap.Time("expires_at", token.ExpiresAt),
	)

	return token.Value, nil
}

// Invalidate drops the held token so the next call refreshes it
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = nil
}

// Refreshes reports how many tokens have been minted
func (c *TokenCache) Refreshes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshes
}
