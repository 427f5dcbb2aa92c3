package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lmittmann/tint"

	"github.com/catalogd/catalogd/api"
	"github.com/catalogd/catalogd/internal/cache"
	"github.com/catalogd/catalogd/internal/catalog"
	"github.com/catalogd/catalogd/internal/config"
	"github.com/catalogd/catalogd/internal/db"
	"github.com/catalogd/catalogd/internal/handlers"
	"github.com/catalogd/catalogd/internal/logging"
	"github.com/catalogd/catalogd/internal/products"
	"github.com/catalogd/catalogd/internal/services"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	DB            *pgxpool.Pool
	CacheProvider cache.Provider
	Handlers      *handlers.Handlers
	catalogCache  *products.CachedSource
	logFile       io.Closer
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, logFile, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger, logFile: logFile}

	if err := initSentry(cfg); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	source, err := a.newSource(startupCtx)
	if err != nil {
		a.Close()
		return nil, err
	}

	repo, err := products.NewRepository(source)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize product repository: %w", err)
	}
	checkCatalog(startupCtx, repo, logger.With("component", "catalog_check"))

	productService, err := services.NewProductService(repo, logger.With("component", "product_service"))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize product service: %w", err)
	}

	var healthCheck handlers.HealthChecker
	if a.DB != nil {
		healthCheck = a.DB.Ping
	}

	h, err := handlers.New(handlers.Dependencies{
		Config:      cfg,
		Products:    productService,
		HealthCheck: healthCheck,
		OpenAPI:     api.OpenAPI,
		Logger:      logger,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}
	a.Handlers = h

	return a, nil
}

// newSource builds the catalog source named by CATALOG_SOURCE, wrapped in a cache when a TTL is set.
func (a *App) newSource(ctx context.Context) (products.Source, error) {
	cfg := a.Config

	var (
		source   products.Source
		location string
	)
	switch cfg.CatalogSource {
	case config.SourcePostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL, db.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MaxConnIdleTime: 5 * time.Minute,
			SlowQuery:       250 * time.Millisecond,
			Logger:          a.Logger.With("component", "db"),
		})
		if err != nil {
			return nil, err
		}
		a.DB = database
		if err := db.EnsureSchema(ctx, database); err != nil {
			return nil, err
		}
		source = db.NewProductStore(database)
		location = "catalog_products"
	default:
		fileSource, err := products.NewFileSource(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize catalog file source: %w", err)
		}
		source = fileSource
		location = fileSource.Path()
	}

	if !cfg.CachingEnabled() {
		return source, nil
	}

	provider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}
	a.CacheProvider = provider

	cached, err := products.NewCachedSource(
		source,
		provider,
		cache.CatalogKey(cfg.CatalogSource, location),
		cfg.CacheTTL,
		a.Logger.With("component", "catalog_cache"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog cache: %w", err)
	}
	a.catalogCache = cached
	return cached, nil
}

// ReloadCatalog drops the cached snapshot so the next read goes to the source.
func (a *App) ReloadCatalog(ctx context.Context) error {
	if a.catalogCache == nil {
		return nil
	}
	return a.catalogCache.Invalidate(ctx)
}

// checkCatalog logs catalog problems found at startup. The server starts regardless.
func checkCatalog(ctx context.Context, repo *products.Repository, logger *slog.Logger) {
	all, err := repo.FindAll(ctx)
	if err != nil {
		logger.Warn("catalog is not readable", "error", err)
		return
	}

	if err := catalog.NewValidator().Validate(all); err != nil {
		issues := 0
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			issues = len(joined.Unwrap())
		}
		logger.Warn("catalog has validation issues", "products", len(all), "issues", issues, "error", err)
		return
	}
	logger.Info("catalog loaded", "products", len(all))
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
	if a.DB != nil {
		a.DB.Close()
	}
	if a.Config != nil && a.Config.SentryDSN != "" {
		sentry.Flush(2 * time.Second)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	}
}

func newLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	var handler slog.Handler
	format := strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.LogLevel})
	}

	if strings.TrimSpace(cfg.LogFile) == "" {
		return slog.New(handler), nil, nil
	}

	fileHandler, closer, err := logging.OpenFileHandler(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(logging.MultiHandler(handler, fileHandler)), closer, nil
}

func initSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		EnableTracing:    cfg.SentryTracesSampleRate > 0,
		TracesSampleRate: cfg.SentryTracesSampleRate,
	})
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}
