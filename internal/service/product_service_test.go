package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_GetAll(t *testing.T) {
	ctx := context.Background()

	testProducts := []model.Product{
		{ID: "P001", Name: "Product 1", Price: 10.00, Category: "Cat1", CreatedAt: time.Now()},
		{ID: "P002", Name: "Product 2", Price: 20.00, Category: "Cat2", CreatedAt: time.Now()},
	}

	tests := []struct {
		name           string
		limit          int
		offset         int
		expectedLimit  int
		expectedOffset int
		mockReturn     []model.Product
		mockError      error
		expectError    bool
	}{
		{
			name:           "Success with valid pagination",
			limit:          10,
			offset:         0,
			expectedLimit:  10,
			expectedOffset: 0,
			mockReturn:     testProducts,
		},
		{
			name:           "Zero limit defaults to 10",
			limit:          0,
			offset:         0,
			expectedLimit:  10,
			expectedOffset: 0,
			mockReturn:     testProducts,
		},
		{
			name:           "Limit capped at 100",
			limit:          1000,
			offset:         5,
			expectedLimit:  100,
			expectedOffset: 5,
			mockReturn:     testProducts,
		},
		{
			name:           "Negative offset clamped",
			limit:          10,
			offset:         -3,
			expectedLimit:  10,
			expectedOffset: 0,
			mockReturn:     testProducts,
		},
		{
			name:           "Repository error",
			limit:          10,
			offset:         0,
			expectedLimit:  10,
			expectedOffset: 0,
			mockError:      errors.New("database error"),
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			service := NewProductService(mockRepo, zerolog.Nop())

			if tt.mockError != nil {
				mockRepo.On("GetAll", ctx, tt.expectedLimit, tt.expectedOffset).Return(nil, tt.mockError)
			} else {
				mockRepo.On("GetAll", ctx, tt.expectedLimit, tt.expectedOffset).Return(tt.mockReturn, nil)
			}

			products, err := service.GetAll(ctx, tt.limit, tt.offset)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, products)
			} else {
				require.NoError(t, err)
				assert.Len(t, products, len(tt.mockReturn))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_GetByID(t *testing.T) {
	ctx := context.Background()
	product := &model.Product{ID: "P001", Name: "Product 1", Price: 10.00}

	tests := []struct {
		name      string
		id        string
		setup     func(m *MockProductRepository)
		expectErr error
		wantRaw   bool
	}{
		{
			name:  "Found",
			id:    "P001",
			setup: func(m *MockProductRepository) { m.On("GetByID", ctx, "P001").Return(product, nil) },
		},
		{
			name:      "Empty ID",
			id:        "",
			setup:     func(m *MockProductRepository) {},
			expectErr: model.ErrProductNotFound,
		},
		{
			name:      "Not found",
			id:        "P999",
			setup:     func(m *MockProductRepository) { m.On("GetByID", ctx, "P999").Return(nil, nil) },
			expectErr: model.ErrProductNotFound,
		},
		{
			name:    "Repository error",
			id:      "P001",
			setup:   func(m *MockProductRepository) { m.On("GetByID", ctx, "P001").Return(nil, errors.New("db down")) },
			wantRaw: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			tt.setup(mockRepo)
			service := NewProductService(mockRepo, zerolog.Nop())

			got, err := service.GetByID(ctx, tt.id)

			switch {
			case tt.expectErr != nil:
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, got)
			case tt.wantRaw:
				require.Error(t, err)
				assert.False(t, isDomainError(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, product, got)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_Featured(t *testing.T) {
	ctx := context.Background()

	t.Run("Rounds live ratings", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo, zerolog.Nop())

		mockRepo.On("Featured", ctx, featuredLimit).Return([]model.FeaturedProduct{
			{Product: model.Product{ID: "P002"}, Rating: 13.0 / 3.0, ReviewCount: 3},
			{Product: model.Product{ID: "P001"}},
		}, nil)

		featured, err := service.Featured(ctx)

		require.NoError(t, err)
		require.Len(t, featured, 2)
		assert.Equal(t, 4.3, featured[0].Rating)
		assert.Equal(t, 3, featured[0].ReviewCount)
		assert.Zero(t, featured[1].Rating)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo, zerolog.Nop())
		mockRepo.On("Featured", ctx, featuredLimit).Return(nil, errors.New("db down"))

		featured, err := service.Featured(ctx)

		require.Error(t, err)
		assert.False(t, isDomainError(err))
		assert.Nil(t, featured)
	})
}

func TestProductService_Related(t *testing.T) {
	ctx := context.Background()
	lamp := model.Product{ID: "P001", Name: "Desk Lamp", Category: "lighting"}
	table := model.Product{ID: "P002", Name: "Oak Side Table", Category: "furniture"}
	throw := model.Product{ID: "P003", Name: "Wool Throw", Category: "textiles"}

	tests := []struct {
		name      string
		id        string
		setup     func(m *MockProductRepository)
		expected  []model.Product
		expectErr error
		wantRaw   bool
	}{
		{
			name: "Curated list keeps its order and drops stale IDs",
			id:   "P001",
			setup: func(m *MockProductRepository) {
				curated := lamp
				curated.RelatedProducts = []string{"P003", "P404", "P002", "P003", "P001"}
				m.On("GetByID", ctx, "P001").Return(&curated, nil)
				m.On("GetByIDs", ctx, curated.RelatedProducts).
					Return([]model.Product{lamp, table, throw}, nil)
			},
			expected: []model.Product{throw, table},
		},
		{
			name: "No curated list falls back to the same category",
			id:   "P001",
			setup: func(m *MockProductRepository) {
				m.On("GetByID", ctx, "P001").Return(&lamp, nil)
				m.On("ListByCategory", ctx, "lighting", "P001", relatedLimit).
					Return([]model.Product{{ID: "P006", Category: "lighting"}}, nil)
			},
			expected: []model.Product{{ID: "P006", Category: "lighting"}},
		},
		{
			name: "Unknown product",
			id:   "P999",
			setup: func(m *MockProductRepository) {
				m.On("GetByID", ctx, "P999").Return(nil, nil)
			},
			expectErr: model.ErrProductNotFound,
		},
		{
			name: "Category lookup fails",
			id:   "P001",
			setup: func(m *MockProductRepository) {
				m.On("GetByID", ctx, "P001").Return(&lamp, nil)
				m.On("ListByCategory", ctx, "lighting", "P001", relatedLimit).Return(nil, errors.New("db down"))
			},
			wantRaw: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			tt.setup(mockRepo)
			service := NewProductService(mockRepo, zerolog.Nop())

			related, err := service.Related(ctx, tt.id)

			switch {
			case tt.expectErr != nil:
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, related)
			case tt.wantRaw:
				require.Error(t, err)
				assert.False(t, isDomainError(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.expected, related)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAdminService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("Combines order and catalogue counts", func(t *testing.T) {
		orders := new(MockOrderRepository)
		products := new(MockProductRepository)
		service := NewAdminService(orders, products, zerolog.Nop())

		orders.On("Stats", ctx).Return(&model.OrderStats{
			TotalOrders:  4,
			TotalRevenue: 1234.5678,
			ByStatus:     map[model.OrderStatus]int{model.StatusPending: 3, model.StatusCancelled: 1},
		}, nil)
		products.On("Count", ctx).Return(12, nil)

		stats, err := service.Stats(ctx)

		require.NoError(t, err)
		assert.Equal(t, 4, stats.TotalOrders)
		assert.Equal(t, 12, stats.TotalProducts)
		assert.Equal(t, 1234.57, stats.TotalRevenue)
		assert.Equal(t, 3, stats.OrdersByState[model.StatusPending])
	})

	t.Run("Repository error", func(t *testing.T) {
		orders := new(MockOrderRepository)
		products := new(MockProductRepository)
		service := NewAdminService(orders, products, zerolog.Nop())

		orders.On("Stats", ctx).Return(nil, errors.New("db down"))

		stats, err := service.Stats(ctx)
		require.Error(t, err)
		assert.Nil(t, stats)
		products.AssertNotCalled(t, "Count", ctx)
	})
}
