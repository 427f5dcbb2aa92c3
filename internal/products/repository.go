// Package products loads catalog records from a Source and shapes them for the API.
package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/catalogd/catalogd/internal/catalog"
)

var (
	ErrDataNotFound = errors.New("products data file not found")
	ErrReadFailed   = errors.New("failed to read products data")
)

// Source returns the whole catalog. Implementations must not cache unless asked to.
type Source interface {
	Load(ctx context.Context) ([]catalog.Product, error)
}

type Repository struct {
	source Source
}

func NewRepository(source Source) (*Repository, error) {
	if source == nil {
		return nil, fmt.Errorf("source is required")
	}
	return &Repository{source: source}, nil
}

// FindAll loads every product. Failures are normalized to ErrDataNotFound or ErrReadFailed.
func (r *Repository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	products, err := r.source.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrDataNotFound) || errors.Is(err, ErrReadFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	return products, nil
}

// FindBySlug returns the product with the given slug, or nil when there is none.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	products, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Slug == slug {
			return &products[i], nil
		}
	}
	return nil, nil
}

func (r *Repository) FindAllSimplified(ctx context.Context) ([]catalog.ProductListItem, error) {
	products, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]catalog.ProductListItem, 0, len(products))
	for _, product := range products {
		items = append(items, product.ListItem())
	}
	return items, nil
}
