package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/catalogd/catalogd/internal/config"
	"github.com/catalogd/catalogd/internal/products"
)

const sampleCatalog = "../data/products.json"

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"PORT", "APP_ENV", "CATALOG_SOURCE", "CATALOG_PATH", "DATABASE_URL", "DB_MAX_CONNS",
		"CATALOG_CACHE_PROVIDER", "CATALOG_CACHE_TTL", "REDIS_CONNECTION_STRING",
		"CORS_ALLOWED_ORIGINS", "SENTRY_DSN", "SENTRY_TRACES_SAMPLE_RATE",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestNew_FileCatalogWithCache(t *testing.T) {
	clearEnv(t)
	logPath := filepath.Join(t.TempDir(), "catalog.log")
	t.Setenv("APP_ENV", "test")
	t.Setenv("CATALOG_PATH", sampleCatalog)
	t.Setenv("CATALOG_CACHE_TTL", "1m")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_FILE", logPath)

	a, err := New()
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	if a.Handlers == nil {
		t.Fatalf("expected handlers to be initialized")
	}
	if a.CacheProvider == nil {
		t.Fatalf("expected cache provider when CATALOG_CACHE_TTL is set")
	}
	if a.DB != nil {
		t.Fatalf("expected no database for the file source")
	}
	if err := a.ReloadCatalog(context.Background()); err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}
	a.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "catalog loaded") {
		t.Fatalf("expected startup catalog check in log file, got %q", content)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG_SOURCE", "s3")

	if _, err := New(); err == nil {
		t.Fatalf("expected error for unknown catalog source")
	}
}

func TestNewSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ttl        time.Duration
		wantCached bool
	}{
		{name: "caching disabled", ttl: 0},
		{name: "caching enabled", ttl: time.Minute, wantCached: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := &App{
				Config: &config.Config{
					CatalogSource: config.SourceFile,
					CatalogPath:   sampleCatalog,
					DBMaxConns:    4,
					CacheProvider: "memory",
					CacheTTL:      tt.ttl,
				},
				Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
			}
			t.Cleanup(a.Close)

			source, err := a.newSource(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			_, cached := source.(*products.CachedSource)
			if cached != tt.wantCached {
				t.Fatalf("unexpected source type: %T", source)
			}

			all, err := source.Load(context.Background())
			if err != nil {
				t.Fatalf("failed to load catalog: %v", err)
			}
			if len(all) == 0 {
				t.Fatalf("expected sample catalog products")
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "app.log")
	logger, closer, err := newLogger(&config.Config{LogFormat: "text", LogLevel: slog.LevelInfo, LogFile: logPath})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closer == nil {
		t.Fatalf("expected a closer for the log file")
	}

	logger.Debug("hidden")
	logger.Info("visible", "slug", "samsung-galaxy-a55-5g")
	if err := closer.Close(); err != nil {
		t.Fatalf("failed to close log file: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "hidden") || !strings.Contains(string(content), "samsung-galaxy-a55-5g") {
		t.Fatalf("unexpected log file content: %q", content)
	}
}
