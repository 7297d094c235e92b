package repository

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/anagroupsupplies/shop/model"
	"github.com/anagroupsupplies/shop/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LineItemRepo backs both the carts and wishlists collections; the two
// differ only in merge behavior, which lives in usecase.
type LineItemRepo struct {
	MongoCollection *mongo.Collection
	collectionName  string
}

func GetCartRepo(client *mongo.Client) *LineItemRepo {
	return &LineItemRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("carts"),
		collectionName:  "carts",
	}
}

func GetWishlistRepo(client *mongo.Client) *LineItemRepo {
	return &LineItemRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("wishlists"),
		collectionName:  "wishlists",
	}
}

// lineItemDoc is the raw store shape. Legacy documents carry price as a
// numeric string; it is coerced here at the boundary so the rest of the code
// only ever sees numbers.
type lineItemDoc struct {
	LineItemID   string           `bson:"_id,omitempty"`
	UserID       string           `bson:"user_id"`
	ProductID    string           `bson:"product_id"`
	GroupID      string           `bson:"group_id,omitempty"`
	Name         string           `bson:"name"`
	Price        interface{}      `bson:"price"`
	Image        string           `bson:"image,omitempty"`
	SelectedSize string           `bson:"selected_size,omitempty"`
	SizingType   model.SizingType `bson:"sizing_type,omitempty"`
	Quantity     int              `bson:"quantity"`
	AddedAt      time.Time        `bson:"added_at"`
}

func (d *lineItemDoc) toModel() *model.LineItem {
	return &model.LineItem{
		LineItemID:   d.LineItemID,
		UserID:       d.UserID,
		ProductID:    d.ProductID,
		GroupID:      d.GroupID,
		Name:         d.Name,
		Price:        model.ParseMoney(d.Price),
		Image:        d.Image,
		SelectedSize: d.SelectedSize,
		SizingType:   d.SizingType,
		Quantity:     d.Quantity,
		AddedAt:      d.AddedAt,
	}
}

// ListByUser reads the user's full collection. Personal collections are
// small; no pagination needed.
func (r *LineItemRepo) ListByUser(ctx context.Context, userID string) ([]*model.LineItem, error) {
	timer := utils.TrackDBOperation("find", r.collectionName)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, wrapQuota(err)
	}
	defer cursor.Close(ctx)

	var docs []lineItemDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, wrapQuota(err)
	}

	items := make([]*model.LineItem, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toModel())
	}
	return items, nil
}

func (r *LineItemRepo) Insert(ctx context.Context, item *model.LineItem) error {
	timer := utils.TrackDBOperation("insert", r.collectionName)
	defer timer.ObserveDuration()

	if item.UserID == "" {
		return errors.New("user ID is required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, item)
	return wrapQuota(err)
}

// UpdateQuantity sets quantity and re-stamps added_at on an existing line.
func (r *LineItemRepo) UpdateQuantity(ctx context.Context, userID, lineItemID string, quantity int, addedAt time.Time) error {
	timer := utils.TrackDBOperation("update", r.collectionName)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": lineItemID, "user_id": userID},
		bson.M{"$set": bson.M{"quantity": quantity, "added_at": addedAt}})
	if err != nil {
		return wrapQuota(err)
	}
	if result.MatchedCount == 0 {
		return errors.New("line item not found")
	}
	return nil
}

// Delete removes a line by id. Deleting a non-existent id is a no-op.
func (r *LineItemRepo) Delete(ctx context.Context, userID, lineItemID string) error {
	timer := utils.TrackDBOperation("delete", r.collectionName)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.DeleteOne(ctx,
		bson.M{"_id": lineItemID, "user_id": userID})
	return wrapQuota(err)
}
