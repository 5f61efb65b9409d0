package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rifathmfm/portfolio-api/internal/content"
)

// MongoRepo implements Repository on a single MongoDB database; each content
// collection maps to a Mongo collection of the same name. Records are keyed
// by an "id" string field rather than ObjectIDs so identifiers stay opaque
// strings end to end.
type MongoRepo struct {
	db *mongo.Database
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	// ensure a unique index on "id" for every known collection
	for _, name := range content.Collections() {
		idx := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
		_, _ = db.Collection(name).Indexes().CreateOne(context.Background(), idx)
	}
	return &MongoRepo{db: db}
}

func (m *MongoRepo) List(ctx context.Context, collection string) ([]*content.Record, error) {
	cur, err := m.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*content.Record{}
	for cur.Next(ctx) {
		var r content.Record
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Create(ctx context.Context, collection string, rec *content.Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if _, err := m.db.Collection(collection).InsertOne(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (m *MongoRepo) Update(ctx context.Context, collection string, id string, rec *content.Record) error {
	cp := *rec
	cp.ID = id
	cp.UpdatedAt = time.Now()
	set := bson.M{"$set": cp}
	res, err := m.db.Collection(collection).UpdateOne(ctx, bson.M{"id": id}, set)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return content.ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, collection string, id string) error {
	res, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return content.ErrNotFound
	}
	return nil
}
