package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/catalogd/catalogd/internal/catalog"
)

// Schema creates the catalog table. Each row holds one product document.
const Schema = `
CREATE TABLE IF NOT EXISTS catalog_products (
    id         TEXT PRIMARY KEY,
    position   INTEGER NOT NULL DEFAULT 0,
    document   JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const listProductsSQL = `SELECT document FROM catalog_products ORDER BY position, id`

// Querier is the subset of pgxpool.Pool used by ProductStore.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ProductStore reads the catalog from Postgres on every Load.
type ProductStore struct {
	db     Querier
	parser *catalog.Parser
}

func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return newProductStore(pool)
}

func newProductStore(q Querier) *ProductStore {
	return &ProductStore{db: q, parser: catalog.NewParser()}
}

func (s *ProductStore) Load(ctx context.Context) ([]catalog.Product, error) {
	rows, err := s.db.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog products: %w", err)
	}

	documents, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("failed to scan catalog products: %w", err)
	}

	products := make([]catalog.Product, 0, len(documents))
	for i, document := range documents {
		product, err := s.parser.ParseProduct(document)
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: %w", i, err)
		}
		products = append(products, *product)
	}
	return products, nil
}

// Execer is the subset of pgxpool.Pool used by EnsureSchema.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func EnsureSchema(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return nil
}
