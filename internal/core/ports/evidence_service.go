package ports

import (
	"context"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// EvidenceService owns the append-only message thread of a dispute.
type EvidenceService interface {
	// Post appends an entry. The sender must be a participant or an assigned
	// juror and the dispute must not be terminal.
	Post(ctx context.Context, disputeID, senderID, text string) (*domain.EvidenceEntry, error)
	// List returns entries ascending by creation time. Read access is
	// participant/juror/admin scoped unless public reads are configured.
	List(ctx context.Context, disputeID, callerID, callerRole string) ([]*domain.EvidenceEntry, error)
}
