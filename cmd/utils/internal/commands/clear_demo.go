package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ClearDemo removes all demo data from the checkout database
func ClearDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo data cleanup...")

	client, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")

	db := client.Database(checkoutDatabase(config))
	if err := clearCheckoutDemo(ctx, db, logger); err != nil {
		return fmt.Errorf("clear checkout demo: %w", err)
	}

	return nil
}

func clearCheckoutDemo(ctx context.Context, db *mongo.Database, logger apt.Logger) error {
	logger.Info("Clearing checkout demo data...")

	// Delete demo tickets
	ticketsCollection := db.Collection("tickets")
	ticketsResult, err := ticketsCollection.DeleteMany(ctx, bson.M{"created_by": "demo-seed"})
	if err != nil {
		return fmt.Errorf("delete demo tickets: %w", err)
	}
	logger.Info("Deleted demo tickets", "count", ticketsResult.DeletedCount)

	// Delete demo loyalty history
	historyCollection := db.Collection("loyalty_history")
	historyResult, err := historyCollection.DeleteMany(ctx, bson.M{"created_by": "demo-seed"})
	if err != nil {
		return fmt.Errorf("delete demo loyalty history: %w", err)
	}
	logger.Info("Deleted demo loyalty history", "count", historyResult.DeletedCount)

	// Delete demo customers
	customersCollection := db.Collection("customers")
	customersResult, err := customersCollection.DeleteMany(ctx, bson.M{"created_by": "demo-seed"})
	if err != nil {
		return fmt.Errorf("delete demo customers: %w", err)
	}
	logger.Info("Deleted demo customers", "count", customersResult.DeletedCount)

	// Clear seed tracker
	seedsCollection := db.Collection("_seeds")
	trackerResult, err := seedsCollection.DeleteOne(ctx, bson.M{"_id": "demo_checkout_v1"})
	if err != nil {
		return fmt.Errorf("delete checkout seed tracker: %w", err)
	}
	logger.Info("Cleared checkout seed tracker", "deleted", trackerResult.DeletedCount)

	return nil
}
