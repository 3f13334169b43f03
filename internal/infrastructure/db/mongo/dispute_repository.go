package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arbitex/marketplace/internal/core/domain"
)

const collectionDisputes = "disputes"

// DisputeRepository persists disputes. Status-changing updates are
// conditional on the current status so concurrent transitions cannot both
// apply; terminal statuses are immutable at the storage layer.
type DisputeRepository struct {
	col *mongo.Collection
}

func NewDisputeRepository(db *mongo.Database) *DisputeRepository {
	return &DisputeRepository{col: db.Collection(collectionDisputes)}
}

func (r *DisputeRepository) Create(ctx context.Context, d *domain.Dispute) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDisputeExists
		}
		return err
	}
	return nil
}

func (r *DisputeRepository) FindByID(ctx context.Context, id string) (*domain.Dispute, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.Dispute
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DisputeRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Dispute, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.Dispute
	err := r.col.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DisputeRepository) AssignJurors(ctx context.Context, id string, jurorIDs []string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": domain.DisputeOpen},
		bson.M{"$set": bson.M{
			"juror_ids": jurorIDs,
			"status":    domain.DisputeInJury,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missOrTransition(ctx, id)
	}
	return nil
}

func (r *DisputeRepository) Resolve(ctx context.Context, id string, status domain.DisputeStatus, buyerVotes, sellerVotes int, resolvedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": domain.DisputeInJury},
		bson.M{"$set": bson.M{
			"status":            status,
			"buyer_vote_count":  buyerVotes,
			"seller_vote_count": sellerVotes,
			"resolved_at":       resolvedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missOrTransition(ctx, id)
	}
	return nil
}

func (r *DisputeRepository) List(ctx context.Context, userID string, page, limit int) ([]*domain.Dispute, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["$or"] = bson.A{
			bson.M{"buyer_id": userID},
			bson.M{"seller_id": userID},
			bson.M{"juror_ids": userID},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var disputes []*domain.Dispute
	if err := cursor.All(ctx, &disputes); err != nil {
		return nil, 0, err
	}
	return disputes, total, nil
}

// missOrTransition distinguishes an unknown dispute from one whose status no
// longer allows the attempted update.
func (r *DisputeRepository) missOrTransition(ctx context.Context, id string) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrDisputeNotFound
	}
	return domain.ErrInvalidTransition
}

// EnsureIndexes creates the one-dispute-per-order constraint and the lookup
// indexes.
func (r *DisputeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "buyer_id", Value: 1}}},
		{Keys: bson.D{{Key: "seller_id", Value: 1}}},
		{Keys: bson.D{{Key: "juror_ids", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
