package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/dtvk027/v0-civic-issue-reporter/pkg/util"
)

// QuotaStore counts hits per key within a fixed window.
type QuotaStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, retryAfter time.Duration, err error)
}

// RedisQuotaStore implements QuotaStore with INCR and an EXPIRE set on the
// first hit of each window.
type RedisQuotaStore struct {
	client *redis.Client
	prefix string
}

// NewRedisQuotaStore builds the store.
func NewRedisQuotaStore(client *redis.Client, prefix string) *RedisQuotaStore {
	return &RedisQuotaStore{client: client, prefix: prefix}
}

func (s *RedisQuotaStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	fullKey := s.prefix + ":" + key
	count, err := s.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, fullKey, window).Err(); err != nil {
			return count, 0, err
		}
		return count, window, nil
	}
	ttl, err := s.client.TTL(ctx, fullKey).Result()
	if err != nil {
		return count, 0, err
	}
	if ttl < 0 {
		// key lost its expiry; restart the window
		_ = s.client.Expire(ctx, fullKey, window).Err()
		ttl = window
	}
	return count, ttl, nil
}

// IssueRateLimiter caps how many issues one caller may report per window.
// Store outages are logged and the request is let through.
func IssueRateLimiter(store QuotaStore, limit int, window time.Duration, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limit <= 0 || store == nil {
			return c.Next()
		}
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}

		count, retryAfter, err := store.Hit(c.UserContext(), principal.ID(), window)
		if err != nil {
			logger.Warn("issue rate limiter unavailable", zap.String("user_id", principal.ID()), zap.Error(err))
			return c.Next()
		}
		if count > int64(limit) {
			return apperrors.NewRateLimited("daily issue report limit reached", retryAfter.Seconds())
		}
		return c.Next()
	}
}
