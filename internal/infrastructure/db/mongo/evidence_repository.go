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

const collectionEvidence = "evidence_entries"

// EvidenceRepository persists the append-only evidence thread. There is no
// update or delete path.
type EvidenceRepository struct {
	col *mongo.Collection
}

func NewEvidenceRepository(db *mongo.Database) *EvidenceRepository {
	return &EvidenceRepository{col: db.Collection(collectionEvidence)}
}

func (r *EvidenceRepository) Append(ctx context.Context, entry *domain.EvidenceEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	_, err := r.col.InsertOne(ctx, entry)
	return err
}

func (r *EvidenceRepository) ListByDispute(ctx context.Context, disputeID string) ([]*domain.EvidenceEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"dispute_id": disputeID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*domain.EvidenceEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EnsureIndexes creates the thread lookup index.
func (r *EvidenceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "dispute_id", Value: 1},
			{Key: "created_at", Value: 1},
		},
	})
	return err
}
