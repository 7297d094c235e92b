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

type ProductRepo struct {
	MongoCollection *mongo.Collection
}

func GetProductRepo(client *mongo.Client) *ProductRepo {
	return &ProductRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("products"),
	}
}

// ProductFilter narrows product listings for the storefront browse pages.
type ProductFilter struct {
	Category string
	Search   string
	MaxPrice float64
}

func (f ProductFilter) toBSON() bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		filter["name"] = bson.M{"$regex": f.Search, "$options": "i"}
	}
	if f.MaxPrice > 0 {
		filter["price"] = bson.M{"$lte": f.MaxPrice}
	}
	return filter
}

func (r *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	timer := utils.TrackDBOperation("insert", "products")
	defer timer.ObserveDuration()

	if product.Name == "" {
		return errors.New("product name is required")
	}

	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	_, err := r.MongoCollection.InsertOne(ctx, product)
	return wrapQuota(err)
}

func (r *ProductRepo) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	timer := utils.TrackDBOperation("find", "products")
	defer timer.ObserveDuration()

	var product model.Product
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, wrapQuota(err)
	}
	return &product, nil
}

func (r *ProductRepo) ListProducts(ctx context.Context, filter ProductFilter) ([]*model.Product, error) {
	timer := utils.TrackDBOperation("find", "products")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, filter.toBSON(), opts)
	if err != nil {
		return nil, wrapQuota(err)
	}
	defer cursor.Close(ctx)

	var products []*model.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, wrapQuota(err)
	}
	return products, nil
}

func (r *ProductRepo) UpdateProduct(ctx context.Context, productID string, updates *model.Product) error {
	timer := utils.TrackDBOperation("update", "products")
	defer timer.ObserveDuration()

	updates.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":        updates.Name,
			"description": updates.Description,
			"price":       updates.Price,
			"image":       updates.Image,
			"category":    updates.Category,
			"sizes":       updates.Sizes,
			"sizing_type": updates.SizingType,
			"stock":       updates.Stock,
			"updated_at":  updates.UpdatedAt,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": productID}, update)
	if err != nil {
		return wrapQuota(err)
	}
	if result.MatchedCount == 0 {
		return errors.New("product not found")
	}
	return nil
}

func (r *ProductRepo) DeleteProduct(ctx context.Context, productID string) error {
	timer := utils.TrackDBOperation("delete", "products")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": productID})
	if err != nil {
		return wrapQuota(err)
	}
	if result.DeletedCount == 0 {
		return errors.New("product not found")
	}
	return nil
}

func (r *ProductRepo) CountProducts(ctx context.Context) (int64, error) {
	timer := utils.TrackDBOperation("count", "products")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{})
	return count, wrapQuota(err)
}

func (r *ProductRepo) CountProductsCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	timer := utils.TrackDBOperation("count", "products")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx,
		bson.M{"created_at": bson.M{"$gte": since}})
	return count, wrapQuota(err)
}
