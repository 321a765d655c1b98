package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// adminService implements AdminService.
type adminService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewAdminService creates a new admin dashboard service.
func NewAdminService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, logger zerolog.Logger) AdminService {
	return &adminService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "admin").Logger(),
	}
}

// Stats summarises orders and the catalogue. Revenue counts subtotals of orders
// that were not cancelled.
func (s *adminService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	orders, err := s.orderRepo.Stats(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to compute order stats")
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	products, err := s.productRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count products")
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	return &model.DashboardStats{
		TotalOrders:   orders.TotalOrders,
		TotalProducts: products,
		TotalRevenue:  roundCents(orders.TotalRevenue),
		OrdersByState: orders.ByStatus,
	}, nil
}
