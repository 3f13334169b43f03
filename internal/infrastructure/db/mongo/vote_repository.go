package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arbitex/marketplace/internal/core/domain"
)

const collectionVotes = "jury_votes"

// VoteRepository persists jury ballots. The unique (dispute_id, juror_id)
// index is the cross-process guarantee that a submission race cannot leave
// two ballots for one juror.
type VoteRepository struct {
	col *mongo.Collection
}

func NewVoteRepository(db *mongo.Database) *VoteRepository {
	return &VoteRepository{col: db.Collection(collectionVotes)}
}

// Upsert writes the juror's current ballot, replacing any prior one for the
// same (dispute, juror) pair. A duplicate-key error means a concurrent insert
// won the race; the write is retried once and lands as an update.
func (r *VoteRepository) Upsert(ctx context.Context, vote *domain.JuryVote) (*domain.JuryVote, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"dispute_id": vote.DisputeID, "juror_id": vote.JurorID}
	update := bson.M{
		"$set": bson.M{
			"choice":     vote.Choice,
			"confidence": vote.Confidence,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        uuid.New().String(),
			"dispute_id": vote.DisputeID,
			"juror_id":   vote.JurorID,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.JuryVote
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if mongo.IsDuplicateKeyError(err) {
		err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	}
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListByDispute returns the current ballots ascending by first submission
// time.
func (r *VoteRepository) ListByDispute(ctx context.Context, disputeID string) ([]*domain.JuryVote, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"dispute_id": disputeID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var votes []*domain.JuryVote
	if err := cursor.All(ctx, &votes); err != nil {
		return nil, err
	}
	return votes, nil
}

// EnsureIndexes creates the one-ballot-per-juror constraint.
func (r *VoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "dispute_id", Value: 1},
			{Key: "juror_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}
