package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/arbitex/marketplace/internal/api/metrics"
	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
	"github.com/arbitex/marketplace/internal/pkg/keymutex"
)

// ArbitrationService collects juror ballots and resolves disputes once the
// quorum of distinct voters produces a winner.
type ArbitrationService struct {
	disputes  ports.DisputeRepository
	votes     ports.VoteRepository
	publisher ports.EventPublisher
	locks     *keymutex.Pool
	logger    zerolog.Logger
}

func NewArbitrationService(
	disputes ports.DisputeRepository,
	votes ports.VoteRepository,
	publisher ports.EventPublisher,
	locks *keymutex.Pool,
	logger zerolog.Logger,
) *ArbitrationService {
	return &ArbitrationService{
		disputes:  disputes,
		votes:     votes,
		publisher: publisher,
		locks:     locks,
		logger:    logger,
	}
}

// SubmitVote upserts the juror's ballot and re-evaluates the tally. A revote
// replaces the prior choice and confidence; it never adds a second ballot.
func (s *ArbitrationService) SubmitVote(ctx context.Context, disputeID, jurorID string, choice domain.VoteChoice, confidence float64) (*ports.VoteResult, error) {
	if !choice.Valid() {
		return nil, domain.ErrInvalidChoice
	}
	if confidence < 0 || confidence > 1 {
		return nil, domain.ErrInvalidConfidence
	}

	timer := prometheus.NewTimer(metrics.VoteAggregationDuration)
	defer timer.ObserveDuration()

	// Serialize tally evaluation per dispute; the unique (dispute, juror)
	// index is the cross-process backstop for the upsert itself.
	unlock := s.locks.Lock(disputeID)
	defer unlock()

	dispute, err := s.disputes.FindByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status.Terminal() {
		return nil, domain.ErrDisputeResolved
	}
	if dispute.Status != domain.DisputeInJury {
		return nil, domain.ErrInvalidTransition
	}
	if !dispute.HasJuror(jurorID) {
		return nil, domain.ErrNotJuror
	}

	now := time.Now().UTC()
	if _, err := s.votes.Upsert(ctx, &domain.JuryVote{
		DisputeID:  disputeID,
		JurorID:    jurorID,
		Choice:     choice,
		Confidence: confidence,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		return nil, err
	}
	metrics.VotesSubmittedTotal.WithLabelValues(string(choice)).Inc()

	ballots, err := s.votes.ListByDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	tally := domain.TallyVotes(ballots)

	status := dispute.Status
	if tally.DistinctJurors >= dispute.RequiredJurors {
		if winner, ok := tally.Winner(); ok {
			status, err = s.resolve(ctx, dispute, winner, tally)
			if err != nil {
				return nil, err
			}
		}
	}

	s.logger.Info().
		Str("dispute_id", disputeID).
		Str("juror_id", jurorID).
		Str("choice", string(choice)).
		Int("distinct_jurors", tally.DistinctJurors).
		Str("status", string(status)).
		Msg("vote recorded")

	return &ports.VoteResult{Votes: ballots, Tally: tally, Status: status}, nil
}

func (s *ArbitrationService) resolve(ctx context.Context, dispute *domain.Dispute, winner domain.VoteChoice, tally domain.Tally) (domain.DisputeStatus, error) {
	status := domain.DisputeResolvedBuyer
	if winner == domain.VoteSeller {
		status = domain.DisputeResolvedSeller
	}

	resolvedAt := time.Now().UTC()
	if err := s.disputes.Resolve(ctx, dispute.ID, status, tally.BuyerVotes, tally.SellerVotes, resolvedAt); err != nil {
		return "", err
	}

	metrics.DisputesResolvedTotal.WithLabelValues(string(status)).Inc()
	dispute.Status = status
	s.publishResolved(ctx, dispute)
	s.logger.Info().
		Str("dispute_id", dispute.ID).
		Str("outcome", string(status)).
		Int("buyer_votes", tally.BuyerVotes).
		Int("seller_votes", tally.SellerVotes).
		Msg("dispute resolved")

	return status, nil
}

func (s *ArbitrationService) publishResolved(ctx context.Context, d *domain.Dispute) {
	err := s.publisher.PublishDisputeEvent(ctx, ports.DisputeEvent{
		Type:      ports.DisputeEventResolved,
		DisputeID: d.ID,
		OrderID:   d.OrderID,
		BuyerID:   d.BuyerID,
		SellerID:  d.SellerID,
		Status:    string(d.Status),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("dispute_id", d.ID).Msg("failed to publish resolution event")
	}
}
