package ports

import (
	"context"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// VoteResult is returned on every submission so callers can render live
// tallies without a second query.
type VoteResult struct {
	Votes  []*domain.JuryVote   `json:"votes"`
	Tally  domain.Tally         `json:"tally"`
	Status domain.DisputeStatus `json:"status"`
}

// ArbitrationService collects juror votes and resolves the dispute once
// quorum is reached.
type ArbitrationService interface {
	// SubmitVote upserts the juror's ballot; a resubmission replaces the
	// prior choice and confidence. When quorum of distinct jurors is met and
	// the tally has a winner, the dispute is resolved.
	SubmitVote(ctx context.Context, disputeID, jurorID string, choice domain.VoteChoice, confidence float64) (*VoteResult, error)
}
