package domain

import (
	"errors"
	"time"
)

var ErrEmptyEvidence = errors.New("evidence text must not be empty")

// EvidenceEntry is one message in the append-only thread attached to a
// dispute. Entries are immutable once created and ordered by creation time.
type EvidenceEntry struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	DisputeID string    `json:"dispute_id" bson:"dispute_id"`
	SenderID  string    `json:"sender_id" bson:"sender_id"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
