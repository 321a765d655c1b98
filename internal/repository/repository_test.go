package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the application schema
// and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedProducts inserts test products into the database.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	t.Helper()
	ctx := context.Background()

	query := `
		INSERT INTO products (id, name, description, price, category, stock, image, related_products, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, p := range products {
		_, err := pool.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price, p.Category, p.Stock, p.Image,
			nonNilStrings(p.RelatedProducts), p.CreatedAt)
		require.NoError(t, err)
	}
}

// newTestOrder builds a pending order for userID with one item per product ID.
func newTestOrder(userID string, createdAt time.Time, productIDs ...string) *model.Order {
	id := uuid.New()
	order := &model.Order{
		ID:          id,
		UserID:      userID,
		Subtotal:    0,
		ShippingFee: 50,
		ShippingAddress: model.ShippingAddress{
			FullName: "Asha Rao",
			Address:  "12 Lake Road",
			City:     "Pune",
			Zone:     model.ZoneUrban,
		},
		Status:        model.StatusPending,
		PaymentMethod: model.PaymentCashOnDelivery,
		PaymentStatus: model.PaymentPending,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	for i, productID := range productIDs {
		order.Items = append(order.Items, model.OrderItem{
			ID:        uuid.New(),
			OrderID:   id,
			Position:  i,
			ProductID: productID,
			Name:      "Item " + productID,
			Price:     100,
			Quantity:  i + 1,
		})
		order.Subtotal += 100 * float64(i+1)
	}
	order.Total = order.Subtotal + order.ShippingFee
	return order
}

// insertOrder persists order and its items in one transaction.
func insertOrder(t *testing.T, repo OrderRepository, order *model.Order) {
	t.Helper()
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, order.Items))
	require.NoError(t, tx.Commit(ctx))
}
