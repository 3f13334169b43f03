package domain

import (
	"errors"
	"time"
)

// VoteChoice is the side a juror backs.
type VoteChoice string

const (
	VoteBuyer  VoteChoice = "buyer"
	VoteSeller VoteChoice = "seller"
)

var ErrInvalidChoice = errors.New("vote choice must be buyer or seller")
var ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")

// Valid reports whether the choice is one of the two known sides.
func (c VoteChoice) Valid() bool {
	return c == VoteBuyer || c == VoteSeller
}

// JuryVote is one juror's current ballot on one dispute. There is at most one
// vote per (dispute, juror) pair; a resubmission replaces choice and
// confidence, it never adds a second ballot.
type JuryVote struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	DisputeID  string     `json:"dispute_id" bson:"dispute_id"`
	JurorID    string     `json:"juror_id" bson:"juror_id"`
	Choice     VoteChoice `json:"choice" bson:"choice"`
	Confidence float64    `json:"confidence" bson:"confidence"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" bson:"updated_at"`
}

// Tally summarises the current ballots of a dispute.
type Tally struct {
	BuyerVotes       int     `json:"buyer_votes"`
	SellerVotes      int     `json:"seller_votes"`
	BuyerConfidence  float64 `json:"buyer_confidence"`
	SellerConfidence float64 `json:"seller_confidence"`
	DistinctJurors   int     `json:"distinct_jurors"`
}

// Winner returns the prevailing side once ballots diverge. Counts decide
// first; on a count tie the higher summed confidence decides; a full tie
// returns ok=false and the dispute stays with the jury.
func (t Tally) Winner() (VoteChoice, bool) {
	switch {
	case t.BuyerVotes > t.SellerVotes:
		return VoteBuyer, true
	case t.SellerVotes > t.BuyerVotes:
		return VoteSeller, true
	case t.BuyerConfidence > t.SellerConfidence:
		return VoteBuyer, true
	case t.SellerConfidence > t.BuyerConfidence:
		return VoteSeller, true
	}
	return "", false
}

// TallyVotes folds the current vote list into a Tally. Every vote in the list
// is a distinct juror's latest ballot.
func TallyVotes(votes []*JuryVote) Tally {
	var t Tally
	for _, v := range votes {
		switch v.Choice {
		case VoteBuyer:
			t.BuyerVotes++
			t.BuyerConfidence += v.Confidence
		case VoteSeller:
			t.SellerVotes++
			t.SellerConfidence += v.Confidence
		}
	}
	t.DistinctJurors = len(votes)
	return t
}
