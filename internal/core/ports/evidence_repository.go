package ports

import (
	"context"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// EvidenceRepository defines the append-only evidence thread. Entries are
// never updated or deleted.
type EvidenceRepository interface {
	Append(ctx context.Context, entry *domain.EvidenceEntry) error
	// ListByDispute returns entries ascending by creation time.
	ListByDispute(ctx context.Context, disputeID string) ([]*domain.EvidenceEntry, error)
}
