package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tilldesk/pos/internal/checkout"
)

type LoyaltyHistoryRepo struct {
	collection *mongo.Collection
}

func NewLoyaltyHistoryRepo(db *mongo.Database) *LoyaltyHistoryRepo {
	return &LoyaltyHistoryRepo{
		collection: db.Collection("loyalty_history"),
	}
}

// Append writes one ledger entry; the collection is append-only and the
// store assigns the document id.
func (r *LoyaltyHistoryRepo) Append(ctx context.Context, entry *checkout.LoyaltyEntry) error {
	if entry == nil {
		return fmt.Errorf("loyalty entry is nil")
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("cannot append loyalty entry: %w", err)
	}

	return nil
}

func (r *LoyaltyHistoryRepo) ListByCustomer(ctx context.Context, customerID string) ([]*checkout.LoyaltyEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"customer_id": customerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list loyalty history: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*checkout.LoyaltyEntry
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode loyalty history: %w", err)
	}

	return result, nil
}
