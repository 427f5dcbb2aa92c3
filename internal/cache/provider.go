package cache

// Package cache provides caching functionality for catalog snapshots.

import (
	"context"
	"fmt"
	"time"
)

// Provider defines the interface for caching serialized catalog snapshots
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Provider              string
	RedisConnectionString string
	MemorySize            int
}

func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryProvider(cfg.MemorySize)
	case "redis":
		return NewRedisProvider(cfg.RedisConnectionString)
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Provider)
	}
}

// CatalogKey names the snapshot of one catalog source, e.g. "catalog:file:data/products.json".
func CatalogKey(source, location string) string {
	return fmt.Sprintf("catalog:%s:%s", source, location)
}
