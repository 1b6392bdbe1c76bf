package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tilldesk/pos/internal/checkout"
)

type CustomerRepo struct {
	collection *mongo.Collection
}

func NewCustomerRepo(db *mongo.Database) *CustomerRepo {
	return &CustomerRepo{
		collection: db.Collection("customers"),
	}
}

// Insert is create-if-absent on the phone key.
func (r *CustomerRepo) Insert(ctx context.Context, record *checkout.CustomerRecord) error {
	if record == nil {
		return fmt.Errorf("customer record is nil")
	}

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return checkout.ErrDuplicateID
		}
		return fmt.Errorf("cannot create customer: %w", err)
	}

	return nil
}

func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*checkout.CustomerRecord, error) {
	var c checkout.CustomerRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": phone}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepo) FindByPhone(ctx context.Context, phone string) ([]*checkout.CustomerRecord, error) {
	return r.find(ctx, bson.M{"_id": phone})
}

func (r *CustomerRepo) FindByCustomerID(ctx context.Context, customerID string) ([]*checkout.CustomerRecord, error) {
	return r.find(ctx, bson.M{"customer_id": customerID})
}

func (r *CustomerRepo) find(ctx context.Context, filter bson.M) ([]*checkout.CustomerRecord, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("cannot find customers: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*checkout.CustomerRecord
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode customers: %w", err)
	}

	return result, nil
}

// Latest returns the record with the greatest customer id.
func (r *CustomerRepo) Latest(ctx context.Context) (*checkout.CustomerRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "customer_id", Value: -1}})

	var c checkout.CustomerRecord
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read latest customer: %w", err)
	}
	return &c, nil
}

// IncrementPoints is an atomic merge-write: only the balance and
// updated_at change, and concurrent awards cannot lose an increment.
func (r *CustomerRepo) IncrementPoints(ctx context.Context, phone string, delta int) error {
	update := bson.M{
		"$inc": bson.M{"points": delta},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": phone}, update)
	if err != nil {
		return fmt.Errorf("cannot update customer points: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("customer not found")
	}

	return nil
}
