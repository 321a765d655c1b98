package lifecycle

import (
	"time"

	"storefront/internal/model"
)

// DefaultReturnWindowDays is how many whole days after delivery a return may be requested.
const DefaultReturnWindowDays = 7

const day = 24 * time.Hour

// ReturnPolicy decides whether a delivered order can still be returned.
type ReturnPolicy struct {
	WindowDays int
}

// NewReturnPolicy creates a policy with the given window. Non-positive values mean
// DefaultReturnWindowDays.
func NewReturnPolicy(windowDays int) ReturnPolicy {
	if windowDays <= 0 {
		windowDays = DefaultReturnWindowDays
	}
	return ReturnPolicy{WindowDays: windowDays}
}

// DeliveryTime is when the order was delivered. Orders stamped before deliveredAt
// existed fall back to their last update.
func DeliveryTime(order *model.Order) time.Time {
	if order.DeliveredAt != nil {
		return *order.DeliveredAt
	}
	return order.UpdatedAt
}

// Check returns nil when order may be returned at now, model.ErrNotEligible when it is
// not delivered and model.ErrReturnWindowExpired when the window has closed.
func (p ReturnPolicy) Check(order *model.Order, now time.Time) error {
	if order.Status != model.StatusDelivered {
		return model.ErrNotEligible
	}
	// whole days elapsed, so the final partial day still counts
	days := int(now.Sub(DeliveryTime(order)) / day)
	if days > p.WindowDays {
		return model.ErrReturnWindowExpired
	}
	return nil
}

// Eligible reports whether order may be returned at now.
func (p ReturnPolicy) Eligible(order *model.Order, now time.Time) bool {
	return p.Check(order, now) == nil
}

// IsReturnEligible applies the default seven-day window.
func IsReturnEligible(order *model.Order, now time.Time) bool {
	return NewReturnPolicy(DefaultReturnWindowDays).Eligible(order, now)
}
