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

type OrderRepo struct {
	MongoCollection *mongo.Collection
}

func GetOrderRepo(client *mongo.Client) *OrderRepo {
	return &OrderRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("orders"),
	}
}

func (r *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	timer := utils.TrackDBOperation("insert", "orders")
	defer timer.ObserveDuration()

	if order.UserID == "" {
		return errors.New("user ID is required")
	}

	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	if order.Status == "" {
		order.Status = model.OrderPending
	}

	_, err := r.MongoCollection.InsertOne(ctx, order)
	return wrapQuota(err)
}

// GetUserOrders lists a user's orders, newest first, for the tracking page.
func (r *OrderRepo) GetUserOrders(ctx context.Context, userID string) ([]*model.Order, error) {
	timer := utils.TrackDBOperation("find", "orders")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, wrapQuota(err)
	}
	defer cursor.Close(ctx)

	var orders []*model.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, wrapQuota(err)
	}
	return orders, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	timer := utils.TrackDBOperation("update", "orders")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return wrapQuota(err)
	}
	if result.MatchedCount == 0 {
		return errors.New("order not found")
	}
	return nil
}

func (r *OrderRepo) CountOrders(ctx context.Context) (int64, error) {
	timer := utils.TrackDBOperation("count", "orders")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{})
	return count, wrapQuota(err)
}

func (r *OrderRepo) CountOrdersByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	timer := utils.TrackDBOperation("count", "orders")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"status": status})
	return count, wrapQuota(err)
}

// DeliveredOrderTotals fetches the totals of delivered orders for revenue
// aggregation. This is the one deliberate full scan in the stats pipeline
// (bounded to delivered orders); the store offers no server-side sum. Totals
// are coerced at this boundary so malformed values contribute zero.
func (r *OrderRepo) DeliveredOrderTotals(ctx context.Context) ([]float64, error) {
	timer := utils.TrackDBOperation("find", "orders")
	defer timer.ObserveDuration()

	opts := options.Find().SetProjection(bson.M{"total": 1})

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"status": model.OrderDelivered}, opts)
	if err != nil {
		return nil, wrapQuota(err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Total interface{} `bson:"total"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, wrapQuota(err)
	}

	totals := make([]float64, 0, len(docs))
	for _, doc := range docs {
		totals = append(totals, model.ParseMoney(doc.Total))
	}
	return totals, nil
}
