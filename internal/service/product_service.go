package service

import (
	"context"
	"fmt"

	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultProductLimit = 10
	maxProductLimit     = 100
	featuredLimit       = 6
	relatedLimit        = 4
)

// productService implements ProductService.
type productService struct {
	catalogue repository.ProductRepository
	logger    zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(catalogue repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		catalogue: catalogue,
		logger:    logger.With().Str("service", "product").Logger(),
	}
}

// GetAll pages through the catalogue by name. A non-positive limit means the default
// page size and larger limits are capped.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	switch {
	case limit <= 0:
		limit = defaultProductLimit
	case limit > maxProductLimit:
		limit = maxProductLimit
	}
	offset = max(offset, 0)

	products, err := s.catalogue.GetAll(ctx, limit, offset)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("list_products").Inc()
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list catalogue")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return s.lookup(ctx, id, "get_product")
}

// Featured returns the most reviewed products. Ratings count approved reviews only
// and are rounded to one decimal.
func (s *productService) Featured(ctx context.Context) ([]model.FeaturedProduct, error) {
	featured, err := s.catalogue.Featured(ctx, featuredLimit)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("featured_products").Inc()
		s.logger.Error().Err(err).Msg("failed to load featured products")
		return nil, fmt.Errorf("failed to load featured products: %w", err)
	}

	for i := range featured {
		featured[i].Rating = roundTenths(featured[i].Rating)
	}
	return featured, nil
}

// Related returns the curated related products of id in their listed order, skipping
// IDs no longer in the catalogue. Products without a curated list get other products
// of their category.
func (s *productService) Related(ctx context.Context, id string) ([]model.Product, error) {
	product, err := s.lookup(ctx, id, "related_products")
	if err != nil {
		return nil, err
	}

	if len(product.RelatedProducts) == 0 {
		related, err := s.catalogue.ListByCategory(ctx, product.Category, product.ID, relatedLimit)
		if err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("related_products").Inc()
			s.logger.Error().Err(err).
				Str("product_id", id).
				Str("category", product.Category).
				Msg("failed to load same-category products")
			return nil, fmt.Errorf("failed to load related products: %w", err)
		}
		return related, nil
	}

	found, err := s.catalogue.GetByIDs(ctx, product.RelatedProducts)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("related_products").Inc()
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to load curated related products")
		return nil, fmt.Errorf("failed to load related products: %w", err)
	}

	byID := make(map[string]model.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	related := make([]model.Product, 0, len(product.RelatedProducts))
	for _, relatedID := range product.RelatedProducts {
		p, ok := byID[relatedID]
		if !ok || relatedID == product.ID {
			continue
		}
		related = append(related, p)
		delete(byID, relatedID)
	}

	if len(related) < len(product.RelatedProducts) {
		s.logger.Debug().
			Str("product_id", id).
			Int("listed", len(product.RelatedProducts)).
			Int("found", len(related)).
			Msg("skipped stale related product IDs")
	}
	return related, nil
}

func (s *productService) lookup(ctx context.Context, id, operation string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.catalogue.GetByID(ctx, id)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}
	return product, nil
}
