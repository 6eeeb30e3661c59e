package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTier is the long-lived store. Records are keyed per browser session id.
type RedisTier struct {
	client redis.Cmdable
}

func NewRedisTier(client redis.Cmdable) *RedisTier {
	return &RedisTier{client: client}
}

func (t *RedisTier) Name() string { return "redis" }

func redisKey(sid, key string) string {
	return fmt.Sprintf("session:%s:%s", sid, key)
}

func (t *RedisTier) Get(ctx context.Context, key string) (string, bool, error) {
	sid := SessionIDFromContext(ctx)
	if sid == "" {
		return "", false, nil
	}
	val, err := t.client.Get(ctx, redisKey(sid, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Put stores a raw record. Used by the login flow and dev seeding.
func (t *RedisTier) Put(ctx context.Context, sid, key, value string, ttl time.Duration) error {
	return t.client.Set(ctx, redisKey(sid, key), value, ttl).Err()
}

// Clear removes both records of a browser session (logout).
func (t *RedisTier) Clear(ctx context.Context, sid string) error {
	return t.client.Del(ctx, redisKey(sid, KeySuperAdmin), redisKey(sid, KeyUser)).Err()
}
