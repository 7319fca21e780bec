package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/apidoor-catalog/internal/domain/product"
)

const (
	listProductsSQL = `SELECT id, name, source, description, thumbnail
		FROM products ORDER BY id`

	upsertProductSQL = `INSERT INTO products (id, name, source, description, thumbnail)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			source = EXCLUDED.source,
			description = EXCLUDED.description,
			thumbnail = EXCLUDED.thumbnail`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products ordered by id. An empty catalog yields an empty,
// non-nil slice.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, errors.Wrap(err, "scan products")
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

// Upsert inserts p or replaces the stored product with the same id.
func (r *ProductRepository) Upsert(ctx context.Context, p product.Product) error {
	if _, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, p.Source, p.Description, p.Thumbnail,
	); err != nil {
		return errors.Wrapf(err, "upsert product %d", p.ID)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Source, &p.Description, &p.Thumbnail)
	return p, err
}
