package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the moderation state of a review.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Valid reports whether s is a known moderation status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// Review is a customer's rating of a product bought in a specific order.
// At most one review exists per (OrderID, ProductID, UserID).
type Review struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	OrderID   uuid.UUID    `json:"orderId" db:"order_id"`
	ProductID string       `json:"productId" db:"product_id"`
	UserID    string       `json:"userId" db:"user_id"`
	UserName  string       `json:"userName" db:"user_name"`
	Rating    int          `json:"rating" db:"rating"`
	Title     string       `json:"title" db:"title"`
	Comment   string       `json:"comment" db:"comment"`
	Photos    []string     `json:"photos" db:"photos"`
	Recommend bool         `json:"recommend" db:"recommend"`
	Status    ReviewStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" db:"updated_at"`
}

// ReviewRequest represents the request payload for submitting a review.
type ReviewRequest struct {
	OrderID   uuid.UUID `json:"orderId" validate:"required"`
	ProductID string    `json:"productId" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Title     string    `json:"title" validate:"max=200"`
	Comment   string    `json:"comment" validate:"required,max=5000"`
	Photos    []string  `json:"photos" validate:"omitempty,dive,required,uri"`
	Recommend *bool     `json:"recommend,omitempty"`
}

// ReviewModerationRequest is the admin payload for changing a review's status.
type ReviewModerationRequest struct {
	Status ReviewStatus `json:"status" validate:"required"`
}

// RatingSummary is the live aggregate over a product's approved reviews.
type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

// ProductReviews is the public review listing for a product.
type ProductReviews struct {
	Reviews []Review `json:"reviews"`
	RatingSummary
}

// ReviewCheck tells a customer whether they already reviewed a product of an order.
type ReviewCheck struct {
	HasReviewed bool    `json:"hasReviewed"`
	Review      *Review `json:"review"`
	CanReview   bool    `json:"canReview"`
}

// ReviewFilter narrows the admin review listing.
type ReviewFilter struct {
	Status    ReviewStatus
	ProductID string
	Page      int
	Limit     int
}

// ReviewPage is one page of the admin review listing.
type ReviewPage struct {
	Reviews     []Review             `json:"reviews"`
	TotalPages  int                  `json:"totalPages"`
	CurrentPage int                  `json:"currentPage"`
	Total       int                  `json:"total"`
	Stats       map[ReviewStatus]int `json:"stats"`
}

// ReviewOverview summarises moderation state for the admin dashboard.
type ReviewOverview struct {
	TotalReviews    int     `json:"totalReviews"`
	PendingReviews  int     `json:"pendingReviews"`
	ApprovedReviews int     `json:"approvedReviews"`
	RejectedReviews int     `json:"rejectedReviews"`
	AverageRating   float64 `json:"averageRating"`
}
