package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens and pings a Redis connection. Redis backs the
// session store; main closes the client on shutdown.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// RedisProbe reports Redis liveness for the status endpoint.
type RedisProbe struct {
	Client *redis.Client
}

func (p RedisProbe) Alive(ctx context.Context) bool {
	return p.Client.Ping(ctx).Err() == nil
}
