package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arbitex/marketplace/internal/api/metrics"
	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
)

// EvidenceService owns the append-only message thread of a dispute.
type EvidenceService struct {
	disputes       ports.DisputeRepository
	evidence       ports.EvidenceRepository
	evidencePublic bool
	logger         zerolog.Logger
}

func NewEvidenceService(
	disputes ports.DisputeRepository,
	evidence ports.EvidenceRepository,
	evidencePublic bool,
	logger zerolog.Logger,
) *EvidenceService {
	return &EvidenceService{
		disputes:       disputes,
		evidence:       evidence,
		evidencePublic: evidencePublic,
		logger:         logger,
	}
}

// Post appends an entry to the dispute thread. Entries are immutable and
// stamped server-side.
func (s *EvidenceService) Post(ctx context.Context, disputeID, senderID, text string) (*domain.EvidenceEntry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyEvidence
	}

	dispute, err := s.disputes.FindByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status.Terminal() {
		return nil, domain.ErrDisputeResolved
	}
	if !dispute.IsParticipant(senderID) && !dispute.HasJuror(senderID) {
		return nil, domain.ErrForbidden
	}

	entry := &domain.EvidenceEntry{
		DisputeID: disputeID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.evidence.Append(ctx, entry); err != nil {
		return nil, err
	}

	metrics.EvidencePostedTotal.Inc()
	s.logger.Debug().Str("dispute_id", disputeID).Str("sender_id", senderID).Msg("evidence appended")

	return entry, nil
}

// List returns the thread ascending by creation time.
func (s *EvidenceService) List(ctx context.Context, disputeID, callerID, callerRole string) ([]*domain.EvidenceEntry, error) {
	dispute, err := s.disputes.FindByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !s.canRead(dispute, callerID, callerRole) {
		return nil, domain.ErrForbidden
	}
	return s.evidence.ListByDispute(ctx, disputeID)
}

func (s *EvidenceService) canRead(d *domain.Dispute, callerID, callerRole string) bool {
	if s.evidencePublic || callerRole == domain.RoleAdmin {
		return true
	}
	return d.IsParticipant(callerID) || d.HasJuror(callerID)
}
