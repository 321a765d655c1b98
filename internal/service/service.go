package service

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/shipping"

	"github.com/google/uuid"
)

// ProductService defines read operations on the catalogue.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Featured returns the most reviewed products with their live approved rating.
	Featured(ctx context.Context) ([]model.FeaturedProduct, error)

	// Related returns the products shown alongside id.
	Related(ctx context.Context, id string) ([]model.Product, error)
}

// OrderService defines the order lifecycle operations.
type OrderService interface {
	// CreateOrder prices the cart from the catalogue, adds the courier charge and
	// stores a pending cash-on-delivery order for userID.
	CreateOrder(ctx context.Context, userID string, req *model.OrderRequest) (*model.Order, error)

	// ListMyOrders retrieves userID's orders, newest first.
	ListMyOrders(ctx context.Context, userID string) ([]model.Order, error)

	// GetMyOrder retrieves one of userID's orders.
	GetMyOrder(ctx context.Context, userID string, id uuid.UUID) (*model.Order, error)

	// RequestReturn moves a delivered order of userID to return_requested while the
	// return window is open.
	RequestReturn(ctx context.Context, userID string, id uuid.UUID, req *model.ReturnRequest) (*model.Order, error)

	// Zones returns the courier pricing table.
	Zones() shipping.Table

	// ListAll retrieves every order, newest first.
	ListAll(ctx context.Context) ([]model.Order, error)

	// UpdateStatus applies an admin status transition.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

// ReviewService defines operations on product reviews.
type ReviewService interface {
	// Submit creates a pending review for a product of one of the caller's delivered orders.
	Submit(ctx context.Context, who model.Identity, req *model.ReviewRequest) (*model.Review, error)

	// Check reports whether userID reviewed productID of orderID and may still do so.
	Check(ctx context.Context, userID string, orderID uuid.UUID, productID string) (*model.ReviewCheck, error)

	// ProductReviews lists approved reviews of a product with its live rating.
	ProductReviews(ctx context.Context, productID string) (*model.ProductReviews, error)

	// MyReviews lists userID's reviews, newest first.
	MyReviews(ctx context.Context, userID string) ([]model.Review, error)

	// List pages through all reviews for moderation.
	List(ctx context.Context, filter model.ReviewFilter) (*model.ReviewPage, error)

	// Overview summarises moderation state.
	Overview(ctx context.Context) (*model.ReviewOverview, error)

	// Moderate sets a review's status.
	Moderate(ctx context.Context, id uuid.UUID, status model.ReviewStatus) (*model.Review, error)

	// Delete removes a review.
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminService defines dashboard operations.
type AdminService interface {
	// Stats summarises orders and the catalogue.
	Stats(ctx context.Context) (*model.DashboardStats, error)
}
