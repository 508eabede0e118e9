package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Adriano-luizello/Profeta-sub001/internal/config"
)

const (
	// Metrics depend on the day, so entries never need to outlive a few minutes
	defaultMetricsTTL = 5 * time.Minute
	pingTimeout       = 5 * time.Second
	unlinkBatch       = 500
)

// connectRedis opens the metrics cache connection and checks it is reachable
func connectRedis(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("metrics cache unreachable at %s: %w", opts.Addr, err)
	}

	return client, nil
}

func metricsTTL(cfg config.CacheConfig) time.Duration {
	if cfg.SupplyChainTTLSeconds <= 0 {
		return defaultMetricsTTL
	}
	return time.Duration(cfg.SupplyChainTTLSeconds) * time.Second
}

// redisOptions prefers REDIS_URL and falls back to host, port and db
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// unlinkPrefix drops every cached metrics entry under prefix
func unlinkPrefix(ctx context.Context, client *redis.Client, prefix string) error {
	iter := client.Scan(ctx, 0, prefix+"*", unlinkBatch).Iterator()

	batch := make([]string, 0, unlinkBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := client.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("unlink %d metrics keys: %w", len(batch), err)
		}
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == unlinkBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan metrics keys %q: %w", prefix, err)
	}

	return flush()
}
