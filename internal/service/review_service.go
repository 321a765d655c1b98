package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// productReviewLimit caps the public review listing of a product.
	productReviewLimit = 50

	defaultReviewPageSize = 20
	maxReviewPageSize     = 100
)

// reviewService implements ReviewService.
type reviewService struct {
	reviewRepo repository.ReviewRepository
	orderRepo  repository.OrderRepository
	now        func() time.Time
	logger     zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		now:        time.Now,
		logger:     logger.With().Str("service", "review").Logger(),
	}
}

// Submit creates a pending review. Preconditions are checked in order: the order
// exists and belongs to the caller, it is delivered, the product is one of its
// items and the caller has not reviewed it yet.
func (s *reviewService) Submit(ctx context.Context, who model.Identity, req *model.ReviewRequest) (*model.Review, error) {
	if err := validateReviewRequest(req); err != nil {
		return nil, err
	}

	order, err := s.ownedOrder(ctx, who.UserID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.StatusDelivered {
		s.logger.Warn().
			Str("order_id", order.ID.String()).
			Str("status", string(order.Status)).
			Msg("review submitted for undelivered order")
		return nil, model.ErrOrderNotDelivered
	}
	if !order.HasProduct(req.ProductID) {
		s.logger.Warn().
			Str("order_id", order.ID.String()).
			Str("product_id", req.ProductID).
			Msg("review submitted for product outside the order")
		return nil, model.ErrProductNotInOrder
	}

	existing, err := s.reviewRepo.FindByKey(ctx, order.ID, req.ProductID, who.UserID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("submit_review").Inc()
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to look up review")
		return nil, fmt.Errorf("failed to submit review: %w", err)
	}
	if existing != nil {
		return nil, model.ErrDuplicateReview
	}

	recommend := true
	if req.Recommend != nil {
		recommend = *req.Recommend
	}

	now := s.now()
	review := &model.Review{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: req.ProductID,
		UserID:    who.UserID,
		UserName:  who.Name,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
		Photos:    dedupe(req.Photos),
		Recommend: recommend,
		Status:    model.ReviewPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The unique key still decides when two submissions race past the lookup.
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, model.ErrDuplicateReview) {
			s.logger.Warn().
				Str("order_id", order.ID.String()).
				Str("product_id", req.ProductID).
				Msg("concurrent duplicate review rejected")
			return nil, err
		}
		metrics.OperationErrorsTotal.WithLabelValues("submit_review").Inc()
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create review")
		return nil, fmt.Errorf("failed to submit review: %w", err)
	}

	metrics.ReviewsSubmittedTotal.Inc()
	s.logger.Info().
		Str("review_id", review.ID.String()).
		Str("order_id", order.ID.String()).
		Str("product_id", review.ProductID).
		Int("rating", review.Rating).
		Msg("review submitted")

	return review, nil
}

// Check reports whether the caller reviewed the product and may still do so.
func (s *reviewService) Check(ctx context.Context, userID string, orderID uuid.UUID, productID string) (*model.ReviewCheck, error) {
	existing, err := s.reviewRepo.FindByKey(ctx, orderID, productID, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to look up review")
		return nil, fmt.Errorf("failed to check review: %w", err)
	}

	check := &model.ReviewCheck{HasReviewed: existing != nil, Review: existing}
	if existing != nil {
		return check, nil
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to check review: %w", err)
	}
	check.CanReview = order != nil &&
		order.UserID == userID &&
		order.Status == model.StatusDelivered &&
		order.HasProduct(productID)

	return check, nil
}

// ProductReviews lists approved reviews of a product with its live rating.
func (s *reviewService) ProductReviews(ctx context.Context, productID string) (*model.ProductReviews, error) {
	reviews, err := s.reviewRepo.ListApprovedByProduct(ctx, productID, productReviewLimit)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to list product reviews")
		return nil, fmt.Errorf("failed to list product reviews: %w", err)
	}

	summary, err := s.reviewRepo.ProductRating(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to aggregate product rating")
		return nil, fmt.Errorf("failed to list product reviews: %w", err)
	}
	summary.AverageRating = roundTenths(summary.AverageRating)

	return &model.ProductReviews{Reviews: reviews, RatingSummary: summary}, nil
}

// MyReviews lists userID's reviews, newest first.
func (s *reviewService) MyReviews(ctx context.Context, userID string) ([]model.Review, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list user reviews")
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// List pages through all reviews for moderation.
func (s *reviewService) List(ctx context.Context, filter model.ReviewFilter) (*model.ReviewPage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, model.ErrInvalidStatus
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultReviewPageSize
	}
	if filter.Limit > maxReviewPageSize {
		filter.Limit = maxReviewPageSize
	}

	reviews, total, err := s.reviewRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list reviews")
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	stats, err := s.reviewRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count reviews")
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return &model.ReviewPage{
		Reviews:     reviews,
		TotalPages:  (total + filter.Limit - 1) / filter.Limit,
		CurrentPage: filter.Page,
		Total:       total,
		Stats:       stats,
	}, nil
}

// Overview summarises moderation state.
func (s *reviewService) Overview(ctx context.Context) (*model.ReviewOverview, error) {
	counts, err := s.reviewRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count reviews")
		return nil, fmt.Errorf("failed to build review overview: %w", err)
	}

	avg, err := s.reviewRepo.ApprovedAverage(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to aggregate approved rating")
		return nil, fmt.Errorf("failed to build review overview: %w", err)
	}

	overview := &model.ReviewOverview{
		PendingReviews:  counts[model.ReviewPending],
		ApprovedReviews: counts[model.ReviewApproved],
		RejectedReviews: counts[model.ReviewRejected],
		AverageRating:   roundTenths(avg),
	}
	overview.TotalReviews = overview.PendingReviews + overview.ApprovedReviews + overview.RejectedReviews

	return overview, nil
}

// Moderate sets a review's status.
func (s *reviewService) Moderate(ctx context.Context, id uuid.UUID, status model.ReviewStatus) (*model.Review, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	review, err := s.reviewRepo.UpdateStatus(ctx, id, status, s.now())
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("moderate_review").Inc()
		s.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to moderate review")
		return nil, fmt.Errorf("failed to moderate review: %w", err)
	}
	if review == nil {
		return nil, model.ErrReviewNotFound
	}

	metrics.ReviewModerationsTotal.WithLabelValues(string(status)).Inc()
	s.logger.Info().
		Str("review_id", id.String()).
		Str("status", string(status)).
		Msg("review moderated")

	return review, nil
}

// Delete removes a review.
func (s *reviewService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.reviewRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to delete review")
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if !deleted {
		return model.ErrReviewNotFound
	}

	s.logger.Info().Str("review_id", id.String()).Msg("review deleted")
	return nil
}

// ownedOrder loads orderID and hides orders of other users as not found.
func (s *reviewService) ownedOrder(ctx context.Context, userID string, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("submit_review").Inc()
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to submit review: %w", err)
	}
	if order == nil || order.UserID != userID {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("user_id", userID).
			Msg("review submitted for unknown order")
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

func validateReviewRequest(req *model.ReviewRequest) error {
	if req == nil {
		return model.NewValidationError("review request is required")
	}
	if req.OrderID == uuid.Nil || req.ProductID == "" {
		return model.NewValidationError("order and product are required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return model.NewValidationError("rating must be between 1 and 5")
	}
	if req.Comment == "" {
		return model.NewValidationError("comment is required")
	}
	return nil
}

func roundTenths(v float64) float64 {
	return math.Round(v*10) / 10
}
