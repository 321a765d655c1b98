package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, description, price, category, stock, image, related_products, created_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1)
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// ListByCategory retrieves up to limit products of category other than excludeID.
func (r *productRepository) ListByCategory(ctx context.Context, category, excludeID string, limit int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE category = $1 AND id <> $2
		ORDER BY name
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, category, excludeID, limit)
	if err != nil {
		r.logger.Error().Err(err).
			Str("category", category).
			Str("exclude_id", excludeID).
			Msg("failed to query products by category")
		return nil, fmt.Errorf("failed to query products by category: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// Featured retrieves up to limit products joined with their approved-review aggregate.
// Products without approved reviews carry a zero rating and count.
func (r *productRepository) Featured(ctx context.Context, limit int) ([]model.FeaturedProduct, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.category, p.stock, p.image,
		       p.related_products, p.created_at,
		       COALESCE(AVG(rv.rating), 0)::float8 AS rating,
		       COUNT(rv.id) AS review_count
		FROM products p
		LEFT JOIN reviews rv ON rv.product_id = p.id AND rv.status = $1
		GROUP BY p.id
		ORDER BY review_count DESC, p.name
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, model.ReviewApproved, limit)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Msg("failed to query featured products")
		return nil, fmt.Errorf("failed to query featured products: %w", err)
	}
	defer rows.Close()

	featured := []model.FeaturedProduct{}
	for rows.Next() {
		var fp model.FeaturedProduct
		fp.Product, err = scanProduct(rows, &fp.Rating, &fp.ReviewCount)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan featured product row")
			return nil, fmt.Errorf("failed to scan featured product: %w", err)
		}
		featured = append(featured, fp)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating featured product rows")
		return nil, fmt.Errorf("error iterating featured products: %w", err)
	}

	return featured, nil
}

// Count returns the number of catalogue products.
func (r *productRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *productRepository) collect(rows pgx.Rows) ([]model.Product, error) {
	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// scanProduct reads the productColumns of row followed by any extra columns.
func scanProduct(row pgx.Row, extra ...any) (model.Product, error) {
	var p model.Product
	dest := append([]any{
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.Image,
		&p.RelatedProducts, &p.CreatedAt,
	}, extra...)
	err := row.Scan(dest...)
	return p, err
}
