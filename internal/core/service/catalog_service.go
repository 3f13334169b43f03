package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
)

// CatalogService owns catalog listings.
type CatalogService struct {
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewCatalogService(products ports.ProductRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{products: products, logger: logger}
}

// Create validates and persists a new listing. The price must parse as a
// positive decimal.
func (s *CatalogService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	price, err := decimal.NewFromString(in.Price)
	if err != nil || !price.IsPositive() {
		return nil, domain.ErrInvalidPrice
	}

	now := time.Now().UTC()
	product := &domain.Product{
		SellerID:    in.SellerID,
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", product.ID).Str("seller_id", product.SellerID).Msg("product listed")
	return product, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *CatalogService) List(ctx context.Context, page, limit int) ([]*domain.Product, int64, error) {
	return s.products.List(ctx, page, limit)
}
