package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arbitex/marketplace/internal/core/domain"
)

const collectionCarts = "carts"

// CartRepository stores one cart document per user, keyed by user id. Save
// replaces the whole document so lines and total always land together.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(collectionCarts)}
}

func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc cartDoc
	err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &domain.Cart{UserID: userID}, nil
		}
		return nil, err
	}
	return fromCartDoc(&doc)
}

func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx,
		bson.M{"_id": cart.UserID},
		toCartDoc(cart),
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}
