package ports

import (
	"context"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// VoteRepository defines persistence for jury votes. Upsert is keyed by
// (dispute_id, juror_id) under a unique constraint so a race between two
// submissions for the same pair cannot persist two ballots.
type VoteRepository interface {
	Upsert(ctx context.Context, vote *domain.JuryVote) (*domain.JuryVote, error)
	// ListByDispute returns the current (not superseded) ballots ascending by
	// first submission time.
	ListByDispute(ctx context.Context, disputeID string) ([]*domain.JuryVote, error)
}
