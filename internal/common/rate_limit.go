package common

import (
	"context"
	"fmt"
	"time"

	"github.com/bugsnap/backend/config"
	"github.com/bugsnap/backend/pkg/errorx"
	"github.com/bugsnap/backend/pkg/xcontext"

	"github.com/redis/go-redis/v9"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) error
}

// redisRateLimiter implements a fixed-window counter shared by every
// instance of the service.
type redisRateLimiter struct {
	client *redis.Client
	cfg    config.UsageConfigs
}

func NewRateLimiter(client *redis.Client, cfg config.UsageConfigs) RateLimiter {
	return &redisRateLimiter{client: client, cfg: cfg}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string) error {
	window := time.Now().Unix() / int64(l.cfg.RateWindow.Seconds())
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, window)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		// A broken limiter must not take the feature down with it.
		xcontext.Logger(ctx).Errorf("Cannot increase the rate counter: %v", err)
		return nil
	}

	if count == 1 {
		l.client.Expire(ctx, redisKey, l.cfg.RateWindow)
	}

	if count > int64(l.cfg.RatePerWindow) {
		return errorx.New(errorx.TooManyRequests, "You have sent too many requests, slow down")
	}

	return nil
}

type MockRateLimiter struct {
	AllowFunc func(ctx context.Context, key string) error
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) error {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key)
	}
	return nil
}
