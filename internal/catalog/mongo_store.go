package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"cedra_storefront/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore catalogue dans une collection MongoDB "products"
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection("products")}
}

func (s *MongoStore) Find(ctx context.Context, f Filter, sort Sort, skip, limit int) ([]models.Product, error) {
	opts := options.Find().SetSort(mongoSort(sort)).SetSkip(int64(skip))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.coll.Find(ctx, mongoFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	return products, nil
}

func (s *MongoStore) Count(ctx context.Context, f Filter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, mongoFilter(f))
	if err != nil {
		return 0, fmt.Errorf("mongo count: %w", err)
	}
	return n, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("mongo findOne: %w", err)
	}
	return p, nil
}

func (s *MongoStore) Insert(ctx context.Context, products ...models.Product) error {
	if len(products) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(products))
	for _, p := range products {
		docs = append(docs, p)
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongo insertMany: %w", err)
	}
	return nil
}

// mongoFilter traduit le Filter en requête Mongo. Le terme est échappé : recherche par sous-chaîne, pas par regex.
func mongoFilter(f Filter) bson.M {
	query := bson.M{}

	if term := strings.TrimSpace(f.Term); term != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Brand != "" {
		query["brand"] = f.Brand
	}

	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	if f.MinRating != nil {
		query["rating"] = bson.M{"$gte": *f.MinRating}
	}
	if f.InStock != nil {
		query["inStock"] = *f.InStock
	}
	return query
}

func mongoSort(s Sort) bson.D {
	switch s {
	case SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	case SortName:
		return bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}
	case SortRating:
		return bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	}
}
