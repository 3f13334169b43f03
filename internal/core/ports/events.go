package ports

import "context"

// Dispute lifecycle event types.
const (
	DisputeEventOpened       = "dispute.opened"
	DisputeEventJuryAssigned = "dispute.jury_assigned"
	DisputeEventResolved     = "dispute.resolved"
)

// DisputeEvent is published on dispute lifecycle changes for downstream
// consumers (notifications, settlement).
type DisputeEvent struct {
	Type      string `json:"type"`
	DisputeID string `json:"dispute_id"`
	OrderID   string `json:"order_id"`
	BuyerID   string `json:"buyer_id"`
	SellerID  string `json:"seller_id"`
	Status    string `json:"status"`
}

// EventPublisher publishes dispute lifecycle events. Publishing is best
// effort: services log failures and do not roll back the triggering write.
type EventPublisher interface {
	PublishDisputeEvent(ctx context.Context, event DisputeEvent) error
}
