package ports

import (
	"context"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// CartRepository stores one cart per user. Save replaces the whole document
// so a recomputed total is never persisted apart from the lines it was
// computed from.
type CartRepository interface {
	// Get retrieves the user's cart; an absent cart is returned empty, not as
	// an error.
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Clear(ctx context.Context, userID string) error
}
