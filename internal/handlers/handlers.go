package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/catalogd/catalogd/internal/catalog"
	"github.com/catalogd/catalogd/internal/config"
	"github.com/catalogd/catalogd/internal/logging"
)

// ProductService is the catalog behaviour the HTTP layer depends on.
type ProductService interface {
	GetAllProducts(ctx context.Context) ([]catalog.ProductListItem, error)
	GetProductBySlug(ctx context.Context, slug string) (*catalog.Product, error)
	GetProductView(ctx context.Context, slug string, query url.Values) (*catalog.ProductView, error)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker func(ctx context.Context) error

// Handlers provides HTTP request handlers for the catalog API.
type Handlers struct {
	config      *config.Config
	products    ProductService
	healthCheck HealthChecker
	openAPI     []byte
	openAPIJSON []byte
	logger      *slog.Logger
}

type Dependencies struct {
	Config   *config.Config
	Products ProductService
	// HealthCheck is optional; the file source has nothing to probe.
	HealthCheck HealthChecker
	OpenAPI     []byte
	Logger      *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := logging.OrDiscard(deps.Logger)

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.Products == nil {
		return nil, fmt.Errorf("handlers dependencies: products is required")
	}
	if len(deps.OpenAPI) == 0 {
		return nil, fmt.Errorf("handlers dependencies: openAPI is required")
	}
	openAPIJSON, err := yamlToJSON(deps.OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("handlers dependencies: invalid openAPI document: %w", err)
	}

	return &Handlers{
		config:      deps.Config,
		products:    deps.Products,
		healthCheck: deps.HealthCheck,
		openAPI:     deps.OpenAPI,
		openAPIJSON: openAPIJSON,
		logger:      logger.With("component", "handlers"),
	}, nil
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.healthCheck != nil {
		if err := h.healthCheck(ctx); err != nil {
			h.loggerFromContext(ctx).Error("catalog store health check failed", "error", err)
			h.writeJSON(ctx, w, http.StatusServiceUnavailable, healthResponse{
				Status:    "unavailable",
				Timestamp: timestamp(),
			})
			return
		}
	}

	h.writeJSON(ctx, w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: timestamp(),
	})
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}
