package database

import (
	"context"
	"fmt"
	"time"

	"github.com/discoveryevent/ticketing-backend/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ConnectRedis returns nil when no address is configured. The address may be
// a redis:// URL or a plain host:port.
func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		logrus.Info("ℹ️ REDIS_ADDR not set, running without redis")
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisAddr)
	if err != nil {
		opts = &redis.Options{Addr: cfg.RedisAddr}
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	if cfg.RedisDB != 0 {
		opts.DB = cfg.RedisDB
	}
	opts.PoolSize = 50
	opts.MinIdleConns = 5
	opts.MaxRetries = 3

	client := redis.NewClient(opts)
	if err := RedisHealthCheck(client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logrus.WithField("addr", opts.Addr).Info("✅ Connected to redis")
	return client, nil
}

func RedisHealthCheck(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}
