package ports

import (
	"context"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// ProductRepository defines persistence for catalog listings.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, page, limit int) ([]*domain.Product, int64, error)
}
