package ports

import (
	"context"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// OrderService owns checkout and the order lifecycle.
type OrderService interface {
	// Checkout snapshots the cart into an order at current product prices and
	// empties the cart. A product vanishing mid-checkout aborts the whole
	// operation with domain.ErrOrderConflict; nothing is persisted.
	Checkout(ctx context.Context, userID string) (*domain.Order, error)
	// Get returns the order to its participants and admins.
	Get(ctx context.Context, orderID, callerID, callerRole string) (*domain.Order, error)
	// Complete lets the buyer confirm receipt; completed orders are disputable.
	Complete(ctx context.Context, orderID, callerID string) (*domain.Order, error)
	// List returns orders where the caller is buyer or seller.
	List(ctx context.Context, callerID string, page, limit int) ([]*domain.Order, int64, error)
}
