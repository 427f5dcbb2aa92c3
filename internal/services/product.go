package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"

	"github.com/catalogd/catalogd/internal/catalog"
	"github.com/catalogd/catalogd/internal/logging"
	"github.com/catalogd/catalogd/internal/observability"
	"github.com/catalogd/catalogd/internal/products"
)

type ProductRepository interface {
	FindAll(ctx context.Context) ([]catalog.Product, error)
	FindBySlug(ctx context.Context, slug string) (*catalog.Product, error)
	FindAllSimplified(ctx context.Context) ([]catalog.ProductListItem, error)
}

var errEmptyCatalog = errors.New("catalog has no products")

type ProductService struct {
	repo     ProductRepository
	validate *validator.Validate
	logger   *slog.Logger
}

type productLookup struct {
	Slug string `validate:"required"`
}

func NewProductService(repo ProductRepository, logger *slog.Logger) (*ProductService, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &ProductService{
		repo:     repo,
		validate: validator.New(),
		logger:   logging.OrDiscard(logger),
	}, nil
}

func (s *ProductService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// GetAllProducts returns the simplified listing. An empty catalog is an internal failure.
func (s *ProductService) GetAllProducts(ctx context.Context) (items []catalog.ProductListItem, err error) {
	span := startSpan(ctx, "service.product.list", "GetAllProducts")
	defer func() { finishSpan(span, err) }()
	ctx = span.Context()

	items, err = s.repo.FindAllSimplified(ctx)
	if err != nil {
		return nil, s.repositoryError(ctx, "list", err)
	}
	if len(items) == 0 {
		return nil, internalError("No products found", errEmptyCatalog)
	}

	observability.Catalog(ctx).ProductsListed(len(items))
	return items, nil
}

// GetProductBySlug validates the slug and returns the full product record.
func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (product *catalog.Product, err error) {
	span := startSpan(ctx, "service.product.get", "GetProductBySlug")
	defer func() { finishSpan(span, err) }()
	ctx = span.Context()

	return s.findProduct(ctx, slug)
}

// GetProductView resolves the variant selection carried in query against the product.
func (s *ProductService) GetProductView(ctx context.Context, slug string, query url.Values) (view *catalog.ProductView, err error) {
	span := startSpan(ctx, "service.product.view", "GetProductView")
	defer func() { finishSpan(span, err) }()
	ctx = span.Context()

	product, err := s.findProduct(ctx, slug)
	if err != nil {
		return nil, err
	}

	built := catalog.BuildView(product, catalog.SelectionFromQuery(product, query))

	observability.Catalog(ctx).ViewBuilt(built.SKU != nil, len(built.Selection))

	return &built, nil
}

func (s *ProductService) findProduct(ctx context.Context, slug string) (*catalog.Product, error) {
	lookup := productLookup{Slug: strings.TrimSpace(slug)}
	if err := s.validate.Struct(lookup); err != nil {
		return nil, validationError("Invalid product slug", fieldErrors(err)...)
	}

	product, err := s.repo.FindBySlug(ctx, lookup.Slug)
	if err != nil {
		return nil, s.repositoryError(ctx, "get", err)
	}
	if product == nil {
		s.loggerFromContext(ctx).Debug("product not found", "slug", lookup.Slug)
		return nil, notFoundError(fmt.Sprintf("Product with slug %q not found", lookup.Slug), nil)
	}
	return product, nil
}

func (s *ProductService) repositoryError(ctx context.Context, operation string, err error) error {
	metrics := observability.Catalog(ctx)
	if errors.Is(err, products.ErrDataNotFound) {
		metrics.SourceFailed(operation, true)
		s.loggerFromContext(ctx).Warn("catalog data not found", "operation", operation, "error", err)
		return notFoundError("products data file not found", err)
	}

	metrics.SourceFailed(operation, false)
	s.loggerFromContext(ctx).Error("failed to read catalog", "operation", operation, "error", err)
	return internalError("failed to read products", err)
}

func fieldErrors(err error) []FieldError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}
	fields := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, FieldError{
			Field: strings.ToLower(fe.Field()),
			Rule:  fe.Tag(),
		})
	}
	return fields
}

func startSpan(ctx context.Context, operation, description string) *sentry.Span {
	return sentry.StartSpan(
		ctx,
		operation,
		sentry.WithOpName("service.product"),
		sentry.WithDescription(description),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
}

func finishSpan(span *sentry.Span, err error) {
	switch KindOf(err) {
	case KindValidation:
		span.Status = sentry.SpanStatusInvalidArgument
	case KindNotFound:
		span.Status = sentry.SpanStatusNotFound
	default:
		if err != nil {
			span.Status = sentry.SpanStatusInternalError
		} else {
			span.Status = sentry.SpanStatusOK
		}
	}
	span.Finish()
}
