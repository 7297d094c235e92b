package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id_index").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("username_index").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("users_created_at"),
		},
	}

	productIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "price", Value: 1},
			},
			Options: options.Index().SetName("category_price"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("products_created_at"),
		},
		{
			Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().
				SetName("product_text_search").
				SetDefaultLanguage("english").
				SetWeights(bson.D{
					{Key: "name", Value: 10},
					{Key: "description", Value: 3},
				}),
		},
	}

	orderIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("user_orders_date"),
		},
		// Status index keeps the dashboard count queries and the delivered
		// revenue scan off a collection scan.
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("order_status"),
		},
	}

	lineItemIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "added_at", Value: -1},
			},
			Options: options.Index().SetName("user_items_date"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "product_id", Value: 1},
				{Key: "selected_size", Value: 1},
			},
			Options: options.Index().SetName("user_item_identity"),
		},
	}

	for coll, indexes := range map[string][]mongo.IndexModel{
		"users":     userIndexes,
		"products":  productIndexes,
		"orders":    orderIndexes,
		"carts":     lineItemIndexes,
		"wishlists": lineItemIndexes,
	} {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll, err)
		}
	}

	log.Println("Successfully created all indexes")
	return nil
}
