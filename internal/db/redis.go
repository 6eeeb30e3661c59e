package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisDB holds the long-lived session store.
type RedisDB struct {
	Client *redis.Client
	logger *logrus.Entry
}

func NewRedisDB(ctx context.Context, redisURL string, logger *logrus.Entry) (*RedisDB, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("[Redis] Connected to Redis")
	return &RedisDB{Client: client, logger: logger}, nil
}

// Status is reported by the health endpoint.
func (r *RedisDB) Status(ctx context.Context) string {
	if r == nil || r.Client == nil {
		return "disabled"
	}
	if err := r.Client.Ping(ctx).Err(); err != nil {
		return "unreachable"
	}
	return "connected"
}

func (r *RedisDB) Close() {
	if r.Client != nil {
		r.Client.Close()
		r.logger.Info("[Redis] Connection closed")
	}
}
