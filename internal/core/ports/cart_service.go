package ports

import (
	"context"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// CartService owns the pre-checkout cart of a buyer. Mutations recompute the
// total inside the same write so a derived total is always consistent with
// the lines that produced it.
type CartService interface {
	AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
	Get(ctx context.Context, userID string) (*domain.Cart, error)
}
