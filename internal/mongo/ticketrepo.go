package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tilldesk/pos/internal/checkout"
)

type TicketRepo struct {
	collection *mongo.Collection
}

func NewTicketRepo(db *mongo.Database) *TicketRepo {
	return &TicketRepo{
		collection: db.Collection("tickets"),
	}
}

// Insert is create-if-absent on the ticket id: a concurrent finalization
// that already claimed the id surfaces as checkout.ErrDuplicateID so the
// caller can advance the sequence and retry.
func (r *TicketRepo) Insert(ctx context.Context, ticket *checkout.Ticket) error {
	if ticket == nil {
		return fmt.Errorf("ticket is nil")
	}

	if _, err := r.collection.InsertOne(ctx, ticket); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return checkout.ErrDuplicateID
		}
		return fmt.Errorf("cannot create ticket: %w", err)
	}

	return nil
}

func (r *TicketRepo) Get(ctx context.Context, id string) (*checkout.Ticket, error) {
	var t checkout.Ticket
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get ticket: %w", err)
	}
	return &t, nil
}

// Latest returns the ticket with the greatest id, lexicographically across
// all dates, matching how the sequence has always been derived.
func (r *TicketRepo) Latest(ctx context.Context) (*checkout.Ticket, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})

	var t checkout.Ticket
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read latest ticket: %w", err)
	}
	return &t, nil
}
