package main

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/jackc/pgx/v5"
)

type product struct {
	id, name, description, category, image string
	price                                  float64
	stock                                  int
	related                                []string
}

var catalogue = []product{
	{"P001", "Desk Lamp", "Adjustable LED desk lamp", "Lighting", "", 120.00, 25, []string{"P004", "P006"}},
	{"P002", "Oak Side Table", "Solid oak side table", "Furniture", "", 450.00, 4, []string{"P001", "P003"}},
	{"P003", "Wool Throw", "Hand-woven wool throw", "Textiles", "", 80.00, 40, []string{}},
	{"P004", "Ceramic Vase", "Glazed stoneware vase", "Decor", "", 35.50, 12, []string{}},
	{"P005", "Floor Rug", "Flat-weave cotton rug", "Textiles", "", 600.00, 3, []string{"P003"}},
	{"P006", "Wall Clock", "Silent sweep wall clock", "Decor", "", 42.00, 18, []string{}},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run applies the schema and inserts the sample catalogue. Existing products are
// left untouched.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, p := range catalogue {
		batch.Queue(`
			INSERT INTO products (id, name, description, price, category, stock, image, related_products)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING`,
			p.id, p.name, p.description, p.price, p.category, p.stock, p.image, p.related)
	}

	results := pool.SendBatch(ctx, batch)
	inserted := int64(0)
	for _, p := range catalogue {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return fmt.Errorf("failed to seed product %s: %w", p.id, err)
		}
		inserted += tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		return fmt.Errorf("QueryRow failed: %w", err)
	}

	fmt.Printf("Seeded %d of %d products into database: %s\n", inserted, len(catalogue), dbName)
	return nil
}
