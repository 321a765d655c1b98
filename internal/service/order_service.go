package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"storefront/internal/lifecycle"
	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/shipping"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	maxItemQuantity = math.MaxInt32
	// largest value a NUMERIC(10,2) column holds
	maxOrderAmount = 99999999.99
)

// orderService implements OrderService.
type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	calculator   *shipping.Calculator
	stateMachine *lifecycle.StateMachine
	returns      lifecycle.ReturnPolicy
	now          func() time.Time
	logger       zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	calculator *shipping.Calculator,
	stateMachine *lifecycle.StateMachine,
	returns lifecycle.ReturnPolicy,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		calculator:   calculator,
		stateMachine: stateMachine,
		returns:      returns,
		now:          time.Now,
		logger:       logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder prices the cart and stores a pending order.
func (s *orderService) CreateOrder(ctx context.Context, userID string, req *model.OrderRequest) (*model.Order, error) {
	// Validate request
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	productIDs := make([]string, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_order").Inc()
		s.logger.Error().Err(err).Msg("failed to load products for order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	catalogue := make(map[string]model.Product, len(products))
	for _, p := range products {
		catalogue[p.ID] = p
	}

	// Snapshot name and price in cart order
	orderID := uuid.New()
	items := make([]model.OrderItem, len(req.Items))
	var subtotal float64
	for i, item := range req.Items {
		product, ok := catalogue[item.ProductID]
		if !ok {
			s.logger.Warn().
				Str("product_id", item.ProductID).
				Msg("order references unknown product")
			return nil, model.ErrProductNotFound
		}
		items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			Position:  i,
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
		}
		subtotal += product.Price * float64(item.Quantity)
	}
	subtotal = roundCents(subtotal)

	if req.TotalAmount != nil && math.Abs(*req.TotalAmount-subtotal) >= 0.005 {
		s.logger.Warn().
			Float64("client_total", *req.TotalAmount).
			Float64("subtotal", subtotal).
			Msg("cart total does not match catalogue")
		return nil, model.ErrTotalMismatch
	}

	address := req.ShippingAddress
	if address.Zone == "" {
		address.Zone = shipping.FallbackZone
	}

	fee := s.calculator.ComputeCharge(address.Zone, subtotal)
	now := s.now()
	order := &model.Order{
		ID:              orderID,
		UserID:          userID,
		Items:           items,
		Subtotal:        subtotal,
		ShippingFee:     fee,
		Total:           roundCents(subtotal + fee),
		ShippingAddress: address,
		Status:          model.StatusPending,
		PaymentMethod:   model.PaymentCashOnDelivery,
		PaymentStatus:   model.PaymentPending,
		ReturnPhotos:    []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if order.Total > maxOrderAmount {
		s.logger.Warn().
			Float64("subtotal", subtotal).
			Float64("total", order.Total).
			Msg("order total exceeds storable amount")
		return nil, model.ErrOrderTooLarge
	}

	if err := s.persist(ctx, order); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_order").Inc()
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID).
		Int("item_count", len(items)).
		Str("zone", string(address.Zone)).
		Float64("courier_charge", fee).
		Msg("order created successfully")

	return order, nil
}

// persist writes the order and its items in one transaction.
func (s *orderService) persist(ctx context.Context, order *model.Order) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(order.Items)).
			Msg("failed to create order items")
		return fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// ListMyOrders retrieves userID's orders, newest first.
func (s *orderService) ListMyOrders(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("list_user_orders").Inc()
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	for i := range orders {
		s.annotate(&orders[i], lifecycle.ActorCustomer)
	}
	return orders, nil
}

// GetMyOrder retrieves one of userID's orders. Orders of other users are reported
// as not found.
func (s *orderService) GetMyOrder(ctx context.Context, userID string, id uuid.UUID) (*model.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("user_id", userID).
			Msg("order belongs to another user")
		return nil, model.ErrOrderNotFound
	}
	s.annotate(order, lifecycle.ActorCustomer)
	return order, nil
}

// RequestReturn moves a delivered order to return_requested.
func (s *orderService) RequestReturn(ctx context.Context, userID string, id uuid.UUID, req *model.ReturnRequest) (*model.Order, error) {
	if req == nil {
		return nil, model.NewValidationError("return request is required")
	}
	photos := dedupe(req.ReturnPhotos)
	if len(photos) == 0 {
		return nil, model.NewValidationError("at least one return photo is required")
	}

	order, err := s.GetMyOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.stateMachine.CanTransition(order.Status, model.StatusReturnRequested, lifecycle.ActorCustomer); err != nil {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("status", string(order.Status)).
			Msg("return requested for order that is not delivered")
		return nil, model.ErrNotEligible
	}
	if err := s.returns.Check(order, now); err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", id.String()).
			Time("delivered_at", lifecycle.DeliveryTime(order)).
			Msg("return rejected")
		return nil, err
	}

	details := model.ReturnDetails{
		Reason:      req.ReturnReason,
		Photos:      photos,
		RequestedAt: now,
	}
	if err := s.orderRepo.RecordReturn(ctx, id, details); err != nil {
		if isDomainError(err) {
			s.logger.Warn().Str("order_id", id.String()).Msg("order changed before return was recorded")
			return nil, err
		}
		metrics.OperationErrorsTotal.WithLabelValues("request_return").Inc()
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to record return")
		return nil, fmt.Errorf("failed to request return: %w", err)
	}

	from := order.Status
	order.Status = model.StatusReturnRequested
	order.ReturnReason = &details.Reason
	order.ReturnPhotos = photos
	order.ReturnRequestedAt = &details.RequestedAt
	order.UpdatedAt = now
	s.annotate(order, lifecycle.ActorCustomer)

	metrics.ReturnsRequestedTotal.Inc()
	metrics.OrderTransitionsTotal.WithLabelValues(string(from), string(order.Status)).Inc()
	s.logger.Info().
		Str("order_id", id.String()).
		Int("photos", len(photos)).
		Msg("return requested")

	return order, nil
}

// Zones returns the courier pricing table.
func (s *orderService) Zones() shipping.Table {
	return s.calculator.Zones()
}

// ListAll retrieves every order, newest first.
func (s *orderService) ListAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("list_orders").Inc()
		s.logger.Error().Err(err).Msg("failed to list all orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	for i := range orders {
		s.annotate(&orders[i], lifecycle.ActorAdmin)
	}
	return orders, nil
}

// UpdateStatus applies an admin status transition. Delivery stamps deliveredAt and
// completes cash-on-delivery payment.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.stateMachine.CanTransition(order.Status, status, lifecycle.ActorAdmin); err != nil {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(order.Status)).
			Str("to", string(status)).
			Str("policy", string(s.stateMachine.Policy())).
			Msg("status transition rejected")
		return nil, err
	}

	now := s.now()
	change := model.StatusChange{
		OrderID: id,
		From:    order.Status,
		To:      status,
		At:      now,
	}
	if status == model.StatusDelivered {
		change.DeliveredAt = &now
		if order.PaymentMethod == model.PaymentCashOnDelivery {
			change.PaymentStatus = model.PaymentCompleted
		}
	}

	if err := s.orderRepo.UpdateStatus(ctx, change); err != nil {
		if isDomainError(err) {
			s.logger.Warn().Str("order_id", id.String()).Msg("order status changed concurrently")
			return nil, err
		}
		metrics.OperationErrorsTotal.WithLabelValues("update_order_status").Inc()
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = status
	order.UpdatedAt = now
	if change.DeliveredAt != nil {
		order.DeliveredAt = change.DeliveredAt
	}
	if change.PaymentStatus != "" {
		order.PaymentStatus = change.PaymentStatus
	}
	s.annotate(order, lifecycle.ActorAdmin)

	metrics.OrderTransitionsTotal.WithLabelValues(string(change.From), string(status)).Inc()
	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(change.From)).
		Str("to", string(status)).
		Msg("order status updated")

	return order, nil
}

// annotate fills the fields derived from the order's position in its lifecycle.
// Only admins see the statuses they may move the order to.
func (s *orderService) annotate(order *model.Order, actor lifecycle.Actor) {
	order.ReturnEligible = s.returns.Eligible(order, s.now())
	if actor == lifecycle.ActorAdmin {
		order.NextStatuses = s.stateMachine.Targets(order.Status, actor)
	}
}

func (s *orderService) getOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("get_order").Inc()
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewValidationError("order request is required")
	}

	if len(req.Items) == 0 {
		return model.NewValidationError("order must contain at least one item")
	}

	// Validate each item
	for i, item := range req.Items {
		if item.ProductID == "" {
			return model.NewValidationError(fmt.Sprintf("item %d: product ID is required", i))
		}

		if item.Quantity <= 0 || item.Quantity > maxItemQuantity {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	addr := req.ShippingAddress
	if addr.FullName == "" || addr.Address == "" || addr.City == "" {
		return model.NewValidationError("shipping address is incomplete")
	}

	return nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// dedupe drops empty and repeated entries, keeping first occurrence order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
