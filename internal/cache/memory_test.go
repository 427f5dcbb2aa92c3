package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryProvider_SetGetExpire(t *testing.T) {
	t.Parallel()

	provider, err := NewMemoryProvider(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	provider.now = func() time.Time { return now }

	ctx := context.Background()
	key := CatalogKey("file", "data/products.json")

	if _, err := provider.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := provider.Set(ctx, key, "[]", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := provider.Get(ctx, key)
	if err != nil || got != "[]" {
		t.Fatalf("unexpected value: got=%q err=%v", got, err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := provider.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired entry, got %v", err)
	}
	if provider.Len() != 0 {
		t.Fatalf("expected expired entry to be removed, len=%d", provider.Len())
	}
}

func TestMemoryProvider_ZeroTTLRemoves(t *testing.T) {
	t.Parallel()

	provider, err := NewMemoryProvider(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	_ = provider.Set(ctx, "k", "v", time.Minute)
	if err := provider.Set(ctx, "k", "v2", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := provider.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryProvider_Delete(t *testing.T) {
	t.Parallel()

	provider, err := NewMemoryProvider(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	_ = provider.Set(ctx, "k", "v", time.Minute)
	if err := provider.Delete(ctx, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := provider.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	provider, err := NewProvider(Config{Provider: "memory"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := provider.(*MemoryProvider); !ok {
		t.Fatalf("expected memory provider, got %T", provider)
	}

	if _, err := NewProvider(Config{Provider: "memcached"}); err == nil {
		t.Fatalf("expected error for unsupported provider")
	}
}
