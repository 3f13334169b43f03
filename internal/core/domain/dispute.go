package domain

import (
	"errors"
	"time"
)

// DisputeStatus represents the lifecycle state of a dispute.
type DisputeStatus string

const (
	DisputeOpen           DisputeStatus = "open"
	DisputeInJury         DisputeStatus = "in_jury"
	DisputeResolvedBuyer  DisputeStatus = "resolved_buyer"
	DisputeResolvedSeller DisputeStatus = "resolved_seller"
)

// validDisputeTransitions defines the allowed state machine transitions.
// Resolved statuses are terminal: no outgoing edges.
var validDisputeTransitions = map[DisputeStatus][]DisputeStatus{
	DisputeOpen:   {DisputeInJury},
	DisputeInJury: {DisputeResolvedBuyer, DisputeResolvedSeller},
}

var ErrDisputeNotFound = errors.New("dispute not found")
var ErrDisputeExists = errors.New("dispute already exists for this order")
var ErrDisputeResolved = errors.New("dispute already resolved")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrNotJuror = errors.New("caller is not an assigned juror")
var ErrNotParticipant = errors.New("caller is not a dispute participant")
var ErrInvalidQuorum = errors.New("required jurors must be at least 1")
var ErrJurorConflict = errors.New("juror cannot be a dispute participant")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s DisputeStatus) CanTransitionTo(next DisputeStatus) bool {
	for _, allowed := range validDisputeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s DisputeStatus) Terminal() bool {
	return len(validDisputeTransitions[s]) == 0
}

// Dispute is one contested order. The stored vote counters are stamped by
// the aggregator when a terminal status freezes them; reads of an in_jury
// dispute fill them from the current ballots. Disputes are never deleted.
type Dispute struct {
	ID              string        `json:"id" bson:"_id,omitempty"`
	OrderID         string        `json:"order_id" bson:"order_id"`
	BuyerID         string        `json:"buyer_id" bson:"buyer_id"`
	SellerID        string        `json:"seller_id" bson:"seller_id"`
	Reason          string        `json:"reason" bson:"reason"`
	RequiredJurors  int           `json:"required_jurors" bson:"required_jurors"`
	JurorIDs        []string      `json:"juror_ids" bson:"juror_ids"`
	Status          DisputeStatus `json:"status" bson:"status"`
	BuyerVoteCount  int           `json:"buyer_vote_count" bson:"buyer_vote_count"`
	SellerVoteCount int           `json:"seller_vote_count" bson:"seller_vote_count"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	ResolvedAt      *time.Time    `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
}

// HasJuror reports whether userID belongs to the assigned panel.
func (d *Dispute) HasJuror(userID string) bool {
	for _, id := range d.JurorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsParticipant reports whether userID is the buyer or the seller.
func (d *Dispute) IsParticipant(userID string) bool {
	return userID == d.BuyerID || userID == d.SellerID
}
