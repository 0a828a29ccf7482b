package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements a MongoDB-backed repository for orphanage listings.
// Listings keep a string "id" field so memory- and Mongo-backed deployments
// share one wire format.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	// ensure an index on "id" for fast lookups (id is expected unique)
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Insert(ctx context.Context, o *orphanage.Orphanage) (string, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = time.Now().UTC()
	if _, err := m.col.InsertOne(ctx, o); err != nil {
		return "", err
	}
	return o.ID, nil
}

func (m *MongoRepo) FindAll(ctx context.Context) ([]*orphanage.Orphanage, error) {
	// createdAt sort keeps the listing order stable across calls
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*orphanage.Orphanage{}
	for cur.Next(ctx) {
		var o orphanage.Orphanage
		if err := cur.Decode(&o); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, cur.Err()
}

func (m *MongoRepo) FindByID(ctx context.Context, id string) (*orphanage.Orphanage, error) {
	var o orphanage.Orphanage
	err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&o)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
