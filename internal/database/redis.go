package database

import (
	"context"
	"fmt"
	"net"

	"github.com/redis/go-redis/v9"

	"jobsink/internal/config"
)

// NewRedis creates a Redis client for the dedup cache and pings it.
// The client is closed again if the ping fails.
func NewRedis(ctx context.Context, c config.RedisConfig) (*redis.Client, error) {
	if c.Host == "" || c.Port == "" {
		return nil, fmt.Errorf("invalid redis config: host and port are required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:        net.JoinHostPort(c.Host, c.Port),
		Password:    c.Password,
		DB:          c.DB,
		DialTimeout: pingTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
