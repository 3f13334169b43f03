package ports

import (
	"context"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// CreateProductInput carries a new catalog listing. Price is a decimal
// string; it is parsed and validated by the service.
type CreateProductInput struct {
	SellerID    string
	Name        string
	Description string
	Price       string
}

// CatalogService owns catalog listings.
type CatalogService interface {
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, page, limit int) ([]*domain.Product, int64, error)
}
