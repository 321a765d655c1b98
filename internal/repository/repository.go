package repository

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	// Unknown IDs are skipped; callers compare lengths to detect them.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// ListByCategory retrieves up to limit products of category other than excludeID,
	// ordered by name.
	ListByCategory(ctx context.Context, category, excludeID string, limit int) ([]model.Product, error)

	// Featured retrieves up to limit products with their approved-review aggregate,
	// most reviewed first.
	Featured(ctx context.Context, limit int) ([]model.FeaturedProduct, error)

	// Count returns the number of catalogue products.
	Count(ctx context.Context) (int, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID with its items attached.
	// Returns nil when the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves a customer's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)

	// ListAll retrieves every order, newest first.
	ListAll(ctx context.Context) ([]model.Order, error)

	// UpdateStatus applies change only while the order is still in change.From.
	// Returns model.ErrInvalidTransition when no row matched.
	UpdateStatus(ctx context.Context, change model.StatusChange) error

	// RecordReturn moves a delivered order to return_requested and stores the
	// return metadata. Returns model.ErrInvalidTransition when the order is no
	// longer delivered.
	RecordReturn(ctx context.Context, id uuid.UUID, details model.ReturnDetails) error

	// Stats aggregates order counts per status and revenue of non-cancelled orders.
	Stats(ctx context.Context) (*model.OrderStats, error)
}

// ReviewRepository defines the interface for review data access operations.
type ReviewRepository interface {
	// Create inserts a review. Returns model.ErrDuplicateReview when a review
	// for the same (order, product, user) already exists.
	Create(ctx context.Context, review *model.Review) error

	// FindByKey retrieves the review for (order, product, user), or nil.
	FindByKey(ctx context.Context, orderID uuid.UUID, productID, userID string) (*model.Review, error)

	// GetByID retrieves a review by ID, or nil.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)

	// ListApprovedByProduct retrieves up to limit approved reviews of a product, newest first.
	ListApprovedByProduct(ctx context.Context, productID string, limit int) ([]model.Review, error)

	// ProductRating computes the live rating aggregate over a product's approved reviews.
	ProductRating(ctx context.Context, productID string) (model.RatingSummary, error)

	// ListByUser retrieves a customer's reviews, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Review, error)

	// List retrieves one page of reviews matching filter and the total match count.
	List(ctx context.Context, filter model.ReviewFilter) ([]model.Review, int, error)

	// CountByStatus counts reviews per moderation status.
	CountByStatus(ctx context.Context) (map[model.ReviewStatus]int, error)

	// ApprovedAverage is the mean rating across all approved reviews, 0 when none.
	ApprovedAverage(ctx context.Context) (float64, error)

	// UpdateStatus sets a review's moderation status and returns the updated review, or nil.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReviewStatus, at time.Time) (*model.Review, error)

	// Delete removes a review. Reports whether a row was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// nonNilStrings keeps NOT NULL array columns from receiving NULL.
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
