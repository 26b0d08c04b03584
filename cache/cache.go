// Package cache is a small JSON cache for derived analytics with an
// in-process and a redis backend.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kpdgayao/vivita-inventory/config"
	"github.com/kpdgayao/vivita-inventory/metrics"
)

// Cache stores JSON encoded values with a TTL
type Cache interface {
	// Get decodes the value under key into dst and reports whether it was found
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}

// New builds the cache selected by cfg
func New(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(cfg.Prefix), nil
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return NewRedis(client, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// Remember returns the cached value for key or computes, stores and
// returns it. Cache failures are logged and never fail the call.
func Remember[T any](ctx context.Context, c Cache, log *zap.Logger, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var v T
	if c != nil {
		found, err := c.Get(ctx, key, &v)
		switch {
		case err != nil:
			metrics.CacheLookup(metrics.CacheError)
			log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		case found:
			metrics.CacheLookup(metrics.CacheHit)
			return v, nil
		default:
			metrics.CacheLookup(metrics.CacheMiss)
		}
	}

	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	if c != nil {
		if err := c.Set(ctx, key, v, ttl); err != nil {
			log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}
