package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/arbitex/marketplace/internal/api/metrics"
	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
	"github.com/arbitex/marketplace/internal/pkg/keymutex"
)

// DisputeService owns the dispute lifecycle up to vote aggregation.
type DisputeService struct {
	disputes       ports.DisputeRepository
	orders         ports.OrderRepository
	votes          ports.VoteRepository
	publisher      ports.EventPublisher
	locks          *keymutex.Pool
	evidencePublic bool
	logger         zerolog.Logger
}

func NewDisputeService(
	disputes ports.DisputeRepository,
	orders ports.OrderRepository,
	votes ports.VoteRepository,
	publisher ports.EventPublisher,
	locks *keymutex.Pool,
	evidencePublic bool,
	logger zerolog.Logger,
) *DisputeService {
	return &DisputeService{
		disputes:       disputes,
		orders:         orders,
		votes:          votes,
		publisher:      publisher,
		locks:          locks,
		evidencePublic: evidencePublic,
		logger:         logger,
	}
}

// Create opens a dispute on a completed order. Only the buyer may contest,
// and each order can be disputed at most once.
func (s *DisputeService) Create(ctx context.Context, in ports.CreateDisputeInput) (*domain.Dispute, error) {
	if in.RequiredJurors < 1 {
		return nil, domain.ErrInvalidQuorum
	}

	order, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != in.BuyerID || order.BuyerID == order.SellerID {
		return nil, domain.ErrForbidden
	}
	if order.Status != domain.OrderCompleted {
		return nil, domain.ErrOrderNotCompleted
	}

	// Friendly pre-check; the unique order_id index is the backstop under
	// concurrent creates.
	if _, err := s.disputes.FindByOrderID(ctx, in.OrderID); err == nil {
		return nil, domain.ErrDisputeExists
	} else if !errors.Is(err, domain.ErrDisputeNotFound) {
		return nil, err
	}

	dispute := &domain.Dispute{
		OrderID:        order.ID,
		BuyerID:        order.BuyerID,
		SellerID:       order.SellerID,
		Reason:         in.Reason,
		RequiredJurors: in.RequiredJurors,
		JurorIDs:       []string{},
		Status:         domain.DisputeOpen,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.disputes.Create(ctx, dispute); err != nil {
		return nil, err
	}

	if err := s.orders.MarkDisputed(ctx, order.ID); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to stamp disputed status on order")
	}

	metrics.DisputesOpenedTotal.Inc()
	s.publish(ctx, ports.DisputeEventOpened, dispute)
	s.logger.Info().Str("dispute_id", dispute.ID).Str("order_id", order.ID).Msg("dispute opened")

	return dispute, nil
}

// AssignJurors sets the juror panel and moves the dispute open -> in_jury.
func (s *DisputeService) AssignJurors(ctx context.Context, disputeID string, jurorIDs []string) (*domain.Dispute, error) {
	unlock := s.locks.Lock(disputeID)
	defer unlock()

	dispute, err := s.disputes.FindByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status.Terminal() {
		return nil, domain.ErrDisputeResolved
	}
	if !dispute.Status.CanTransitionTo(domain.DisputeInJury) {
		return nil, domain.ErrInvalidTransition
	}

	panel := dedupe(jurorIDs)
	if len(panel) < dispute.RequiredJurors {
		return nil, domain.ErrInvalidQuorum
	}
	for _, id := range panel {
		if dispute.IsParticipant(id) {
			return nil, domain.ErrJurorConflict
		}
	}

	if err := s.disputes.AssignJurors(ctx, disputeID, panel); err != nil {
		return nil, err
	}

	dispute.JurorIDs = panel
	dispute.Status = domain.DisputeInJury
	s.publish(ctx, ports.DisputeEventJuryAssigned, dispute)
	s.logger.Info().Str("dispute_id", disputeID).Int("jurors", len(panel)).Msg("jury assigned")

	return dispute, nil
}

// Get returns the dispute to participants, assigned jurors, and admins. With
// public evidence enabled any authenticated caller may read.
func (s *DisputeService) Get(ctx context.Context, disputeID, callerID, callerRole string) (*domain.Dispute, error) {
	dispute, err := s.disputes.FindByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !s.canRead(dispute, callerID, callerRole) {
		return nil, domain.ErrForbidden
	}

	// The stored counters are stamped at resolution; while the jury is still
	// voting the read reflects the current ballots.
	if dispute.Status == domain.DisputeInJury {
		ballots, err := s.votes.ListByDispute(ctx, disputeID)
		if err != nil {
			return nil, err
		}
		tally := domain.TallyVotes(ballots)
		dispute.BuyerVoteCount = tally.BuyerVotes
		dispute.SellerVoteCount = tally.SellerVotes
	}
	return dispute, nil
}

// List returns the caller's disputes. Admins see every dispute.
func (s *DisputeService) List(ctx context.Context, callerID, callerRole string, page, limit int) ([]*domain.Dispute, int64, error) {
	filterUser := callerID
	if callerRole == domain.RoleAdmin {
		filterUser = ""
	}
	return s.disputes.List(ctx, filterUser, page, limit)
}

func (s *DisputeService) canRead(d *domain.Dispute, callerID, callerRole string) bool {
	if s.evidencePublic || callerRole == domain.RoleAdmin {
		return true
	}
	return d.IsParticipant(callerID) || d.HasJuror(callerID)
}

func (s *DisputeService) publish(ctx context.Context, eventType string, d *domain.Dispute) {
	err := s.publisher.PublishDisputeEvent(ctx, ports.DisputeEvent{
		Type:      eventType,
		DisputeID: d.ID,
		OrderID:   d.OrderID,
		BuyerID:   d.BuyerID,
		SellerID:  d.SellerID,
		Status:    string(d.Status),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("dispute_id", d.ID).Str("type", eventType).Msg("failed to publish dispute event")
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
