// Package ratelimit implements a Redis-backed fixed-window rate limiter for
// the HTTP API.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avelichko/searchcore/pkg/config"
	"github.com/avelichko/searchcore/pkg/redis"
)

// Limiter counts requests per client key in Redis windows. When Redis is
// unreachable the limiter fails open: requests are allowed and the error is
// logged.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *slog.Logger
}

// New creates a Limiter with the configured per-window request budget.
func New(client *redis.Client, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		limit:  cfg.PerWindow,
		window: cfg.Window,
		logger: slog.Default().With("component", "ratelimit"),
	}
}

// Allow reports whether the client identified by key has remaining capacity
// in the current window, consuming one unit.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))
	count, err := l.client.Incr(ctx, windowKey)
	if err != nil {
		l.logger.Error("rate limit check failed, allowing request", "key", key, "error", err)
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, windowKey, l.window); err != nil {
			l.logger.Error("failed to set rate limit window TTL", "key", windowKey, "error", err)
		}
	}
	return count <= int64(l.limit)
}
