package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is a state of the order lifecycle.
type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusProcessing      OrderStatus = "processing"
	StatusShipped         OrderStatus = "shipped"
	StatusDelivered       OrderStatus = "delivered"
	StatusCancelled       OrderStatus = "cancelled"
	StatusReturnRequested OrderStatus = "return_requested"
	StatusReturned        OrderStatus = "returned"
)

// OrderStatuses lists every known order status.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPending,
		StatusProcessing,
		StatusShipped,
		StatusDelivered,
		StatusCancelled,
		StatusReturnRequested,
		StatusReturned,
	}
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// Zone is the delivery-distance category of a shipping address.
type Zone string

const (
	ZoneUrban    Zone = "urban"
	ZoneSuburban Zone = "suburban"
	ZoneRural    Zone = "rural"
)

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

// PaymentCashOnDelivery is the only supported payment method.
const PaymentCashOnDelivery PaymentMethod = "cod"

// PaymentStatus tracks whether payment for an order has been collected.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	FullName   string `json:"fullName" validate:"required,max=200"`
	Phone      string `json:"phone,omitempty" validate:"max=40"`
	Address    string `json:"address" validate:"required,max=500"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postalCode,omitempty" validate:"max=20"`
	Country    string `json:"country,omitempty" validate:"max=100"`
	Zone       Zone   `json:"zone"`
}

// Order represents a customer order.
// Items and the monetary fields are fixed when the order is created.
type Order struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	UserID            string          `json:"userId" db:"user_id"`
	Items             []OrderItem     `json:"items"`
	Subtotal          float64         `json:"totalAmount" db:"subtotal"`
	ShippingFee       float64         `json:"courierCharge" db:"shipping_fee"`
	Total             float64         `json:"finalAmount" db:"total"`
	ShippingAddress   ShippingAddress `json:"shippingAddress" db:"shipping_address"`
	Status            OrderStatus     `json:"status" db:"status"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	ReturnReason      *string         `json:"returnReason,omitempty" db:"return_reason"`
	ReturnPhotos      []string        `json:"returnPhotos,omitempty" db:"return_photos"`
	ReturnRequestedAt *time.Time      `json:"returnRequestedAt,omitempty" db:"return_requested_at"`
	DeliveredAt       *time.Time      `json:"deliveredAt,omitempty" db:"delivered_at"`
	CreatedAt         time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time       `json:"updatedAt" db:"updated_at"`

	// derived on read, never stored
	ReturnEligible bool          `json:"returnEligible" db:"-"`
	NextStatuses   []OrderStatus `json:"nextStatuses,omitempty" db:"-"`
}

// HasProduct reports whether productID is one of the order's line items.
func (o *Order) HasProduct(productID string) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// OrderItem is a frozen snapshot of a catalogue product taken when the order was placed.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	Position  int       `json:"-" db:"position"`
	ProductID string    `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"unit_price"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount     *float64           `json:"totalAmount,omitempty" validate:"omitempty,gte=0"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// ReturnRequest is the customer's payload for asking to return a delivered order.
type ReturnRequest struct {
	ReturnReason string   `json:"returnReason" validate:"max=1000"`
	ReturnPhotos []string `json:"returnPhotos" validate:"required,min=1,dive,required,uri"`
}

// StatusUpdateRequest is the admin payload for moving an order to a new status.
type StatusUpdateRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

// StatusChange describes a conditional status write: it only applies while the
// order is still in From.
type StatusChange struct {
	OrderID       uuid.UUID
	From          OrderStatus
	To            OrderStatus
	At            time.Time
	DeliveredAt   *time.Time
	PaymentStatus PaymentStatus
}

// ReturnDetails is the metadata persisted with a return request.
type ReturnDetails struct {
	Reason      string
	Photos      []string
	RequestedAt time.Time
}

// OrderStats summarises orders for the admin dashboard.
type OrderStats struct {
	TotalOrders  int                 `json:"totalOrders"`
	TotalRevenue float64             `json:"totalRevenue"`
	ByStatus     map[OrderStatus]int `json:"byStatus"`
}

// DashboardStats is the admin overview across orders and the catalogue.
type DashboardStats struct {
	TotalOrders   int                 `json:"totalOrders"`
	TotalProducts int                 `json:"totalProducts"`
	TotalRevenue  float64             `json:"totalRevenue"`
	OrdersByState map[OrderStatus]int `json:"ordersByStatus"`
}
