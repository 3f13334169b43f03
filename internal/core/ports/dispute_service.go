package ports

import (
	"context"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// CreateDisputeInput carries the buyer's request to contest a completed order.
type CreateDisputeInput struct {
	OrderID        string
	BuyerID        string
	Reason         string
	RequiredJurors int
}

// DisputeService owns the dispute lifecycle up to, but not including, vote
// aggregation.
type DisputeService interface {
	Create(ctx context.Context, in CreateDisputeInput) (*domain.Dispute, error)
	// AssignJurors sets the juror panel and moves the dispute open -> in_jury.
	// Admin-only; panel members must not be participants.
	AssignJurors(ctx context.Context, disputeID string, jurorIDs []string) (*domain.Dispute, error)
	// Get returns the dispute to participants, assigned jurors, and admins.
	Get(ctx context.Context, disputeID, callerID, callerRole string) (*domain.Dispute, error)
	// List returns disputes the caller participates in or sits on as juror;
	// admins see all disputes.
	List(ctx context.Context, callerID, callerRole string, page, limit int) ([]*domain.Dispute, int64, error)
}
