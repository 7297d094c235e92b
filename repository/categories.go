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

type CategoryRepo struct {
	MongoCollection *mongo.Collection
}

func GetCategoryRepo(client *mongo.Client) *CategoryRepo {
	return &CategoryRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("categories"),
	}
}

func (r *CategoryRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	timer := utils.TrackDBOperation("insert", "categories")
	defer timer.ObserveDuration()

	if category.Name == "" {
		return errors.New("category name is required")
	}

	category.CreatedAt = time.Now()
	_, err := r.MongoCollection.InsertOne(ctx, category)
	return wrapQuota(err)
}

func (r *CategoryRepo) ListCategories(ctx context.Context) ([]*model.Category, error) {
	timer := utils.TrackDBOperation("find", "categories")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.MongoCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrapQuota(err)
	}
	defer cursor.Close(ctx)

	var categories []*model.Category
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, wrapQuota(err)
	}
	return categories, nil
}

func (r *CategoryRepo) CountCategories(ctx context.Context) (int64, error) {
	timer := utils.TrackDBOperation("count", "categories")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{})
	return count, wrapQuota(err)
}
