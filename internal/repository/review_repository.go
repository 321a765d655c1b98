package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	reviewColumns = `
		id, order_id, product_id, user_id, user_name, rating, title, comment,
		photos, recommend, status, created_at, updated_at`

	// uniqueViolation is the SQLSTATE PostgreSQL reports for a broken unique constraint.
	uniqueViolation = "23505"
)

// reviewRepository implements the ReviewRepository interface using PostgreSQL.
type reviewRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReviewRepository {
	return &reviewRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "review").Logger(),
	}
}

// Create inserts a review.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.OrderID,
		review.ProductID,
		review.UserID,
		review.UserName,
		review.Rating,
		review.Title,
		review.Comment,
		nonNilStrings(review.Photos),
		review.Recommend,
		review.Status,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Debug().
				Str("order_id", review.OrderID.String()).
				Str("product_id", review.ProductID).
				Str("user_id", review.UserID).
				Msg("review already exists")
			return model.ErrDuplicateReview
		}
		r.logger.Error().Err(err).
			Str("order_id", review.OrderID.String()).
			Str("product_id", review.ProductID).
			Msg("failed to create review")
		return fmt.Errorf("failed to create review: %w", err)
	}

	r.logger.Debug().
		Str("review_id", review.ID.String()).
		Str("product_id", review.ProductID).
		Msg("review created successfully")

	return nil
}

// FindByKey retrieves the review for (order, product, user), or nil.
func (r *reviewRepository) FindByKey(ctx context.Context, orderID uuid.UUID, productID, userID string) (*model.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE order_id = $1 AND product_id = $2 AND user_id = $3
	`
	return r.getOne(ctx, query, orderID, productID, userID)
}

// GetByID retrieves a review by ID, or nil.
func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// ListApprovedByProduct retrieves up to limit approved reviews of a product, newest first.
func (r *reviewRepository) ListApprovedByProduct(ctx context.Context, productID string, limit int) ([]model.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE product_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	return r.list(ctx, query, productID, model.ReviewApproved, limit)
}

// ProductRating computes the live rating aggregate over a product's approved reviews.
func (r *reviewRepository) ProductRating(ctx context.Context, productID string) (model.RatingSummary, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews
		WHERE product_id = $1 AND status = $2
	`

	var summary model.RatingSummary
	err := r.pool.QueryRow(ctx, query, productID, model.ReviewApproved).
		Scan(&summary.AverageRating, &summary.TotalReviews)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to aggregate product rating")
		return model.RatingSummary{}, fmt.Errorf("failed to aggregate product rating: %w", err)
	}

	return summary, nil
}

// ListByUser retrieves a customer's reviews, newest first.
func (r *reviewRepository) ListByUser(ctx context.Context, userID string) ([]model.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

// List retrieves one page of reviews matching filter and the total match count.
func (r *reviewRepository) List(ctx context.Context, filter model.ReviewFilter) ([]model.Review, int, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		conditions = append(conditions, "product_id = $"+strconv.Itoa(len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`+where, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count reviews")
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	if offset < 0 {
		offset = 0
	}
	args = append(args, filter.Limit, offset)
	query := `SELECT ` + reviewColumns + ` FROM reviews` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	reviews, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// CountByStatus counts reviews per moderation status.
func (r *reviewRepository) CountByStatus(ctx context.Context) (map[model.ReviewStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM reviews GROUP BY status`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count reviews by status")
		return nil, fmt.Errorf("failed to count reviews by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.ReviewStatus]int)
	for rows.Next() {
		var (
			status model.ReviewStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan review count row")
			return nil, fmt.Errorf("failed to scan review count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating review count rows")
		return nil, fmt.Errorf("error iterating review counts: %w", err)
	}

	return counts, nil
}

// ApprovedAverage is the mean rating across all approved reviews, 0 when none.
func (r *reviewRepository) ApprovedAverage(ctx context.Context) (float64, error) {
	var avg float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0)::float8 FROM reviews WHERE status = $1`,
		model.ReviewApproved,
	).Scan(&avg)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to aggregate approved rating")
		return 0, fmt.Errorf("failed to aggregate approved rating: %w", err)
	}
	return avg, nil
}

// UpdateStatus sets a review's moderation status and returns the updated review, or nil.
func (r *reviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReviewStatus, at time.Time) (*model.Review, error) {
	query := `
		UPDATE reviews
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + reviewColumns

	review, err := r.getOne(ctx, query, id, status, at)
	if err != nil {
		return nil, err
	}
	if review != nil {
		r.logger.Debug().
			Str("review_id", id.String()).
			Str("status", string(status)).
			Msg("review status updated")
	}
	return review, nil
}

// Delete removes a review.
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to delete review")
		return false, fmt.Errorf("failed to delete review: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *reviewRepository) getOne(ctx context.Context, query string, args ...any) (*model.Review, error) {
	review, err := scanReview(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query review")
		return nil, fmt.Errorf("failed to query review: %w", err)
	}
	return &review, nil
}

func (r *reviewRepository) list(ctx context.Context, query string, args ...any) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query reviews")
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan review row")
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating review rows")
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

func scanReview(row pgx.Row) (model.Review, error) {
	var rv model.Review
	err := row.Scan(
		&rv.ID,
		&rv.OrderID,
		&rv.ProductID,
		&rv.UserID,
		&rv.UserName,
		&rv.Rating,
		&rv.Title,
		&rv.Comment,
		&rv.Photos,
		&rv.Recommend,
		&rv.Status,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	return rv, err
}
