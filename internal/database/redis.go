package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodgram-app/backend/config"
)

const redisPingTimeout = 5 * time.Second

// NewRedisClient connects to Redis and verifies the connection with a
// ping. Callers treat a nil client as "run without Redis", so errors
// here degrade the deployment rather than stopping it.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	log.Printf("Connected to Redis at %s", opts.Addr)
	return client, nil
}

// redisOptions prefers REDIS_URL when set, as deployments hand out a
// single connection string; the host/port/password settings are the
// local-development path.
func redisOptions(cfg *config.Config) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
