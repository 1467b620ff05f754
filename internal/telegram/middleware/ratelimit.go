package middleware

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	warningInterval   = 30 * time.Second
	cleanupInterval   = 10 * time.Minute
	inactiveThreshold = time.Hour
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	tokens        float64
	lastRefill    time.Time
	warningsSent  int
	lastWarningAt time.Time
	mu            sync.Mutex
}

// RateLimiterMiddleware implements token bucket rate limiting per user
type RateLimiterMiddleware struct {
	limits     map[int64]*userLimit
	mu         sync.RWMutex
	maxTokens  float64 // bucket capacity, the burst size
	refillRate float64 // tokens added per second
	now        func() time.Time
	sender     Sender
	logger     *zap.Logger
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	sender Sender,
) *RateLimiterMiddleware {
	rl := &RateLimiterMiddleware{
		limits:     make(map[int64]*userLimit),
		maxTokens:  float64(burstSize),
		refillRate: float64(requestsPerMinute) / 60.0,
		now:        time.Now,
		sender:     sender,
		logger:     logger,
		stop:       make(chan struct{}),
	}

	// Start cleanup goroutine to remove inactive users
	go rl.cleanupInactiveUsers()

	return rl
}

// Close stops the cleanup goroutine
func (rl *RateLimiterMiddleware) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next HandlerFunc) {
	userID, chatID := updateOrigin(update)
	if userID == 0 {
		// Unknown update type, allow it
		next(ctx, update)
		return
	}

	if !rl.allowRequest(userID, chatID) {
		ctxzap.Warn(ctx, "rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(ctx, update)
}

// allowRequest checks if request is allowed under rate limit
func (rl *RateLimiterMiddleware) allowRequest(userID, chatID int64) bool {
	now := rl.now()

	rl.mu.Lock()
	limit, exists := rl.limits[userID]
	if !exists {
		limit = &userLimit{
			tokens:     rl.maxTokens,
			lastRefill: now,
		}
		rl.limits[userID] = limit
	}
	rl.mu.Unlock()

	limit.mu.Lock()
	defer limit.mu.Unlock()

	// Refill tokens based on elapsed time
	elapsed := now.Sub(limit.lastRefill).Seconds()
	limit.tokens = min(limit.tokens+elapsed*rl.refillRate, rl.maxTokens)
	limit.lastRefill = now

	if limit.tokens >= 1.0 {
		limit.tokens -= 1.0
		limit.warningsSent = 0 // Reset warnings on successful request
		return true
	}

	// Rate limit exceeded - send warning if not sent recently
	if now.Sub(limit.lastWarningAt) > warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now

		rl.sendRateLimitWarning(chatID, limit.warningsSent)
	}

	return false
}

// sendRateLimitWarning sends a warning message to the user
func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64, warningCount int) {
	if chatID == 0 {
		return
	}

	var text string
	switch {
	case warningCount == 1:
		text = "⚠️ Слишком много запросов. Пожалуйста, подождите немного."
	case warningCount == 2:
		text = "⚠️ Превышен лимит запросов. Подождите ~30 секунд перед следующей попыткой."
	default:
		text = "🛑 Вы отправляете запросы слишком часто. Пожалуйста, подождите минуту."
	}

	if _, err := rl.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// cleanupInactiveUsers removes users that haven't sent requests in an hour
func (rl *RateLimiterMiddleware) cleanupInactiveUsers() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictInactive()
		}
	}
}

func (rl *RateLimiterMiddleware) evictInactive() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for userID, limit := range rl.limits {
		limit.mu.Lock()
		if now.Sub(limit.lastRefill) > inactiveThreshold {
			delete(rl.limits, userID)
			rl.logger.Debug("cleaned up inactive user from rate limiter",
				zap.Int64("user_id", userID),
			)
		}
		limit.mu.Unlock()
	}
}
