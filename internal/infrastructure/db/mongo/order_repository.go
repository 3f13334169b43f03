package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arbitex/marketplace/internal/core/domain"
)

const collectionOrders = "orders"

// OrderRepository persists orders. As with disputes, status moves are
// conditional updates.
type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	_, err := r.col.InsertOne(ctx, toOrderDoc(o))
	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return fromOrderDoc(&doc)
}

func (r *OrderRepository) Complete(ctx context.Context, id string, completedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": domain.OrderCreated},
		bson.M{"$set": bson.M{
			"status":       domain.OrderCompleted,
			"completed_at": completedAt,
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

func (r *OrderRepository) MarkDisputed(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": domain.OrderCompleted},
		bson.M{"$set": bson.M{"status": domain.OrderDisputed}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missOrTransition(ctx, id)
	}
	return nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"buyer_id": userID},
		bson.M{"seller_id": userID},
	}}

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

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		o, err := fromOrderDoc(&docs[i])
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, nil
}

func (r *OrderRepository) missOrTransition(ctx context.Context, id string) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return domain.ErrInvalidTransition
}

// EnsureIndexes creates the participant lookup indexes.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "buyer_id", Value: 1}}},
		{Keys: bson.D{{Key: "seller_id", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
