package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/catalogd/catalogd/internal/cache"
	"github.com/catalogd/catalogd/internal/catalog"
	"github.com/catalogd/catalogd/internal/logging"
	"github.com/catalogd/catalogd/internal/observability"
)

// CachedSource keeps a serialized snapshot of another source for ttl.
// Cache failures are logged and the wrapped source is used instead.
type CachedSource struct {
	next   Source
	cache  cache.Provider
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedSource(next Source, provider cache.Provider, key string, ttl time.Duration, logger *slog.Logger) (*CachedSource, error) {
	if next == nil {
		return nil, fmt.Errorf("source is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("cache provider is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive")
	}
	return &CachedSource{
		next:   next,
		cache:  provider,
		key:    key,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (s *CachedSource) Load(ctx context.Context) ([]catalog.Product, error) {
	logger := logging.FromContext(ctx, s.logger)
	metrics := observability.Catalog(ctx)

	cached, err := s.cache.Get(ctx, s.key)
	switch {
	case err == nil:
		var products []catalog.Product
		if err := json.Unmarshal([]byte(cached), &products); err == nil {
			metrics.SnapshotLookup("hit")
			return products, nil
		}
		metrics.SnapshotLookup("error")
		logger.Warn("discarding unreadable catalog snapshot", "key", s.key)
	case errors.Is(err, cache.ErrNotFound):
		metrics.SnapshotLookup("miss")
	default:
		metrics.SnapshotLookup("error")
		logger.Warn("catalog cache read failed", "key", s.key, "error", err)
	}

	products, err := s.next.Load(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(products)
	if err != nil {
		logger.Warn("failed to encode catalog snapshot", "error", err)
		return products, nil
	}
	if err := s.cache.Set(ctx, s.key, string(encoded), s.ttl); err != nil {
		logger.Warn("catalog cache write failed", "key", s.key, "error", err)
	}
	return products, nil
}

// Invalidate drops the snapshot so the next Load reads the wrapped source.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, s.key)
}
