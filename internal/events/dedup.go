package events

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupKeyPrefix = "civic:feed:seen:"

// RedisDeduper records event ids with SET NX so replays across reconnects are
// delivered once. Marks are scoped to one process: every instance sharing the
// Redis must still see each event once itself.
type RedisDeduper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisDeduper creates a deduper for instance whose marks expire after ttl.
func NewRedisDeduper(client *redis.Client, instance string, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisDeduper{client: client, prefix: dedupKeyPrefix + instance + ":", ttl: ttl}
}

// Seen marks id and reports whether it was already marked.
func (d *RedisDeduper) Seen(ctx context.Context, id string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.prefix+id, 1, d.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
