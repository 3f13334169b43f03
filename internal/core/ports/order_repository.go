package ports

import (
	"context"
	"time"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// OrderRepository defines persistence for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// Complete moves created -> completed; returns
	// domain.ErrInvalidTransition when the order is not in created.
	Complete(ctx context.Context, id string, completedAt time.Time) error
	// MarkDisputed stamps the disputed status on a completed order.
	MarkDisputed(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Order, int64, error)
}
