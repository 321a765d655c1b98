package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `
	id, user_id, subtotal, shipping_fee, total, shipping_address, status,
	payment_method, payment_status, return_reason, return_photos,
	return_requested_at, delivered_at, created_at, updated_at`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.Subtotal,
		order.ShippingFee,
		order.Total,
		order.ShippingAddress,
		order.Status,
		order.PaymentMethod,
		order.PaymentStatus,
		order.ReturnReason,
		nonNilStrings(order.ReturnPhotos),
		order.ReturnRequestedAt,
		order.DeliveredAt,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("user_id", order.UserID).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, position, product_id, name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.Position, item.ProductID, item.Name, item.Price, item.Quantity)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID with its items attached.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	orders := []model.Order{order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// ListByUser retrieves a customer's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

// ListAll retrieves every order, newest first.
func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
	`
	return r.list(ctx, query)
}

// UpdateStatus applies change only while the order is still in change.From.
func (r *orderRepository) UpdateStatus(ctx context.Context, change model.StatusChange) error {
	query := `
		UPDATE orders
		SET status = $3,
			updated_at = $4,
			delivered_at = COALESCE($5, delivered_at),
			payment_status = COALESCE(NULLIF($6, ''), payment_status)
		WHERE id = $1 AND status = $2
	`

	tag, err := r.pool.Exec(ctx, query,
		change.OrderID,
		change.From,
		change.To,
		change.At,
		change.DeliveredAt,
		string(change.PaymentStatus),
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", change.OrderID.String()).
			Str("to", string(change.To)).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().
			Str("order_id", change.OrderID.String()).
			Str("from", string(change.From)).
			Msg("order status changed concurrently")
		return model.ErrInvalidTransition
	}

	r.logger.Debug().
		Str("order_id", change.OrderID.String()).
		Str("from", string(change.From)).
		Str("to", string(change.To)).
		Msg("order status updated")

	return nil
}

// RecordReturn moves a delivered order to return_requested with its return metadata.
func (r *orderRepository) RecordReturn(ctx context.Context, id uuid.UUID, details model.ReturnDetails) error {
	query := `
		UPDATE orders
		SET status = $2,
			return_reason = $3,
			return_photos = $4,
			return_requested_at = $5,
			updated_at = $5
		WHERE id = $1 AND status = $6
	`

	tag, err := r.pool.Exec(ctx, query,
		id,
		model.StatusReturnRequested,
		details.Reason,
		nonNilStrings(details.Photos),
		details.RequestedAt,
		model.StatusDelivered,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to record return request")
		return fmt.Errorf("failed to record return request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrInvalidTransition
	}

	r.logger.Debug().
		Str("order_id", id.String()).
		Int("photos", len(details.Photos)).
		Msg("return request recorded")

	return nil
}

// Stats aggregates order counts per status and revenue of non-cancelled orders.
func (r *orderRepository) Stats(ctx context.Context) (*model.OrderStats, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(subtotal), 0)
		FROM orders
		GROUP BY status
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order stats")
		return nil, fmt.Errorf("failed to query order stats: %w", err)
	}
	defer rows.Close()

	stats := &model.OrderStats{ByStatus: make(map[model.OrderStatus]int)}
	for rows.Next() {
		var (
			status  model.OrderStatus
			count   int
			revenue float64
		)
		if err := rows.Scan(&status, &count, &revenue); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order stats row")
			return nil, fmt.Errorf("failed to scan order stats: %w", err)
		}
		stats.ByStatus[status] = count
		stats.TotalOrders += count
		if status != model.StatusCancelled {
			stats.TotalRevenue += revenue
		}
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order stats rows")
		return nil, fmt.Errorf("error iterating order stats: %w", err)
	}

	return stats, nil
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	rows.Close()

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachItems loads the items of all orders in one query, keeping placement order.
func (r *orderRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []model.OrderItem{}
	}

	query := `
		SELECT id, order_id, position, product_id, name, unit_price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("orders", len(orders)).Msg("failed to query order items")
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.Position, &item.ProductID, &item.Name, &item.Price, &item.Quantity)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return fmt.Errorf("error iterating order items: %w", err)
	}

	return nil
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Subtotal,
		&o.ShippingFee,
		&o.Total,
		&o.ShippingAddress,
		&o.Status,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.ReturnReason,
		&o.ReturnPhotos,
		&o.ReturnRequestedAt,
		&o.DeliveredAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}
