package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// ErrorKind groups domain errors by how a caller is expected to react to them.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindInvalidState  ErrorKind = "INVALID_STATE"
	KindWindowExpired ErrorKind = "WINDOW_EXPIRED"
	KindDuplicate     ErrorKind = "DUPLICATE_RESOURCE"
	KindValidation    ErrorKind = "VALIDATION_ERROR"
	KindUnauthorised  ErrorKind = "UNAUTHORIZED"
	KindForbidden     ErrorKind = "FORBIDDEN"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeReviewNotFound      = "REVIEW_NOT_FOUND"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeTotalMismatch       = "TOTAL_MISMATCH"
	ErrCodeOrderTooLarge       = "ORDER_TOO_LARGE"
	ErrCodeInvalidStatus       = "INVALID_STATUS"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeNotEligible         = "NOT_ELIGIBLE"
	ErrCodeReturnWindowExpired = "RETURN_WINDOW_EXPIRED"
	ErrCodeOrderNotDelivered   = "ORDER_NOT_DELIVERED"
	ErrCodeProductNotInOrder   = "PRODUCT_NOT_IN_ORDER"
	ErrCodeDuplicateReview     = "DUPLICATE_REVIEW"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a recoverable, user-facing failure of a business operation.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying a request-specific message.
func NewValidationError(message string) *DomainError {
	return NewDomainError(KindValidation, ErrCodeValidation, message)
}

// Common domain errors
var (
	ErrProductNotFound = NewDomainError(KindNotFound, ErrCodeProductNotFound, "One or more products not found")
	ErrOrderNotFound   = NewDomainError(KindNotFound, ErrCodeOrderNotFound, "Order not found")
	ErrReviewNotFound  = NewDomainError(KindNotFound, ErrCodeReviewNotFound, "Review not found")

	ErrInvalidQuantity = NewDomainError(KindValidation, ErrCodeInvalidQuantity, "Quantity must be between 1 and 2147483647")
	ErrOrderTooLarge   = NewDomainError(KindValidation, ErrCodeOrderTooLarge, "Order total exceeds the maximum allowed amount")
	ErrTotalMismatch   = NewDomainError(KindValidation, ErrCodeTotalMismatch, "Cart total does not match current catalogue prices")
	ErrInvalidStatus   = NewDomainError(KindValidation, ErrCodeInvalidStatus, "Unknown status value")

	ErrInvalidTransition   = NewDomainError(KindInvalidState, ErrCodeInvalidTransition, "Order cannot move to the requested status")
	ErrNotEligible         = NewDomainError(KindInvalidState, ErrCodeNotEligible, "Only delivered orders can be returned")
	ErrReturnWindowExpired = NewDomainError(KindWindowExpired, ErrCodeReturnWindowExpired, "Return window expired")

	ErrOrderNotDelivered = NewDomainError(KindInvalidState, ErrCodeOrderNotDelivered, "Order has not been delivered yet")
	// The order's items never change, so naming a product outside them is a bad
	// request rather than a status the order could still move out of.
	ErrProductNotInOrder = NewDomainError(KindValidation, ErrCodeProductNotInOrder, "Product not found in this order")
	ErrDuplicateReview   = NewDomainError(KindDuplicate, ErrCodeDuplicateReview, "You have already reviewed this product")
)
