package ports

import (
	"context"
	"time"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// DisputeRepository defines persistence for disputes. Status-changing writes
// are conditional on the current status so that concurrent transitions cannot
// both apply.
type DisputeRepository interface {
	// Create inserts a new dispute; a second dispute for the same order
	// returns domain.ErrDisputeExists.
	Create(ctx context.Context, d *domain.Dispute) error
	FindByID(ctx context.Context, id string) (*domain.Dispute, error)
	FindByOrderID(ctx context.Context, orderID string) (*domain.Dispute, error)
	// AssignJurors sets the panel and moves open -> in_jury; returns
	// domain.ErrInvalidTransition when the dispute is no longer open.
	AssignJurors(ctx context.Context, id string, jurorIDs []string) error
	// Resolve stamps a terminal status and freezes the vote counters;
	// only applies while the dispute is in_jury.
	Resolve(ctx context.Context, id string, status domain.DisputeStatus, buyerVotes, sellerVotes int, resolvedAt time.Time) error
	List(ctx context.Context, userID string, page, limit int) ([]*domain.Dispute, int64, error)
}
