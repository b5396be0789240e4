// Package ratelimit throttles OTP email sends per address.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"knowledge-assistant/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrTooSoon = errors.New("please wait before requesting another code")
	ErrTooMany = errors.New("too many code requests; try again later")
)

// Limiter decides whether another code may be sent to an email.
type Limiter interface {
	Allow(ctx context.Context, email string) error
}

// Noop allows everything. Used when no Redis is configured.
type Noop struct{}

func (Noop) Allow(context.Context, string) error { return nil }

// RedisLimiter enforces a cooldown between sends and a cap per window.
type RedisLimiter struct {
	client   redis.Cmdable
	cooldown time.Duration
	window   time.Duration
	max      int
	log      *zap.Logger
}

func NewRedisLimiter(client redis.Cmdable, cooldown, window time.Duration, max int, log *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		cooldown: cooldown,
		window:   window,
		max:      max,
		log:      log.With(zap.String("component", "otp_limiter")),
	}
}

func lastKey(email string) string  { return fmt.Sprintf("otp:last:%s", email) }
func countKey(email string) string { return fmt.Sprintf("otp:count:%s", email) }

func (l *RedisLimiter) Allow(ctx context.Context, email string) error {
	// 1. Cooldown since the last send
	if l.cooldown > 0 {
		ttl, err := l.client.TTL(ctx, lastKey(email)).Result()
		if err != nil {
			return fmt.Errorf("read cooldown: %w", err)
		}
		if ttl > 0 {
			return fmt.Errorf("%w (%d seconds)", ErrTooSoon, int(ttl.Seconds()+0.5))
		}
	}

	// 2. Count within the window
	if l.max > 0 {
		cnt, err := l.client.Incr(ctx, countKey(email)).Result()
		if err != nil {
			return fmt.Errorf("increment send count: %w", err)
		}
		if cnt == 1 {
			if err := l.client.Expire(ctx, countKey(email), l.window).Err(); err != nil {
				l.log.Warn("Failed to set window expiry", zap.Error(err), zap.String("email", email))
			}
		}
		if int(cnt) > l.max {
			return ErrTooMany
		}
	}

	// 3. Start the next cooldown
	if l.cooldown > 0 {
		if err := l.client.Set(ctx, lastKey(email), "1", l.cooldown).Err(); err != nil {
			l.log.Warn("Failed to set cooldown", zap.Error(err), zap.String("email", email))
		}
	}

	return nil
}

// New returns a Redis-backed limiter when an address is configured and a
// Noop otherwise. The returned close func is always safe to call.
func New(ctx context.Context, cfg utils.RedisConfig, log *zap.Logger) (Limiter, func() error, error) {
	if cfg.Addr == "" {
		return Noop{}, func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	limiter := NewRedisLimiter(client,
		time.Duration(cfg.ResendCooldownSecs)*time.Second,
		time.Hour,
		cfg.MaxSendsPerHour,
		log,
	)
	return limiter, client.Close, nil
}
