package seeding

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SeedCheckout creates demo loyalty customers plus a short trail of
// finalized tickets and matching loyalty history from the previous day.
func SeedCheckout(ctx context.Context, db *mongo.Database) error {
	customersCollection := db.Collection("customers")
	ticketsCollection := db.Collection("tickets")
	historyCollection := db.Collection("loyalty_history")

	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)

	// Demo customers: one below the discount threshold, one at it, one past it
	demoCustomers := []bson.M{
		{
			"_id":         "07700900101",
			"customer_id": "cus01",
			"name":        "Asha Rao",
			"points":      0,
			"created_at":  yesterday,
			"updated_at":  yesterday,
			"created_by":  "demo-seed",
		},
		{
			"_id":         "07700900102",
			"customer_id": "cus02",
			"name":        "Tom Wheeler",
			"points":      2,
			"created_at":  yesterday,
			"updated_at":  yesterday,
			"created_by":  "demo-seed",
		},
		{
			"_id":         "07700900103",
			"customer_id": "cus03",
			"name":        "Mina Park",
			"points":      7,
			"created_at":  yesterday,
			"updated_at":  yesterday,
			"created_by":  "demo-seed",
		},
	}

	for _, customer := range demoCustomers {
		_, err := customersCollection.UpdateOne(ctx, bson.M{"_id": customer["_id"]}, bson.M{"$setOnInsert": customer}, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("cannot create demo customer %s: %w", customer["customer_id"], err)
		}
	}

	// Finalized tickets from yesterday; ids carry the DDMMYY prefix the
	// till mints so today's sequence continues from them.
	datePrefix := yesterday.Format("020106")

	ticket1ID := datePrefix + strconv.Itoa(1)
	ticket1 := bson.M{
		"_id":     ticket1ID,
		"date":    yesterday.Add(12 * time.Hour),
		"user_id": "1234",
		"items": []bson.M{
			{"item_id": "burger-01", "name": "Classic Burger", "quantity": 2, "price": 6.5},
			{"item_id": "fries-01", "name": "Loaded Fries", "quantity": 1, "price": 4.0},
		},
		"subtotal":      17.0,
		"discount":      0.0,
		"amount":        17.0,
		"earned_points": 0,
		"created_by":    "demo-seed",
	}

	ticket2ID := datePrefix + strconv.Itoa(2)
	ticket2 := bson.M{
		"_id":         ticket2ID,
		"date":        yesterday.Add(13 * time.Hour),
		"user_id":     "1234",
		"customer_id": "cus03",
		"items": []bson.M{
			{"item_id": "wings-01", "name": "BBQ Wings", "quantity": 2, "price": 8.0, "flavorings": []string{"bbq"}},
			{"item_id": "soda-01", "name": "House Lemonade", "quantity": 2, "price": 2.0},
		},
		"subtotal":      20.0,
		"discount":      2.0,
		"amount":        18.0,
		"earned_points": 1,
		"created_by":    "demo-seed",
	}

	for _, ticket := range []bson.M{ticket1, ticket2} {
		_, err := ticketsCollection.UpdateOne(ctx, bson.M{"_id": ticket["_id"]}, bson.M{"$setOnInsert": ticket}, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("cannot create demo ticket %s: %w", ticket["_id"], err)
		}
	}

	// One earn entry matching ticket 2
	history := bson.M{
		"customer_id": "cus03",
		"type":        "earn",
		"points":      1,
		"ticket_id":   ticket2ID,
		"date":        yesterday.Add(13 * time.Hour),
		"created_by":  "demo-seed",
	}
	_, err := historyCollection.UpdateOne(ctx, bson.M{"ticket_id": ticket2ID, "customer_id": "cus03"}, bson.M{"$setOnInsert": history}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("cannot create demo loyalty history: %w", err)
	}

	return nil
}
