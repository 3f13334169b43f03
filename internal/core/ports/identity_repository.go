package ports

import (
	"context"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// IdentityRepository defines persistence for wallet-keyed identities.
type IdentityRepository interface {
	// FindByPublicKey retrieves the identity owning the given compressed
	// public key, or domain.ErrUserNotFound.
	FindByPublicKey(ctx context.Context, publicKey string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
