package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coffee-order/internal/database"
	"coffee-order/internal/order"
)

type sessionDocument struct {
	ID        string         `bson:"_id"`
	Snapshot  order.Snapshot `bson:"snapshot"`
	UpdatedAt time.Time      `bson:"updatedAt"`
}

// MongoStore keeps snapshots in the sessions collection. Expiry is left to
// the TTL index created by database.EnsureSessionIndexes.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(database.SessionsCollection)}
}

func (s *MongoStore) Load(ctx context.Context, id string) (order.Snapshot, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc sessionDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return order.Snapshot{}, false, nil
	}
	if err != nil {
		return order.Snapshot{}, false, fmt.Errorf("load session %s: %w", id, err)
	}
	return doc.Snapshot, true, nil
}

func (s *MongoStore) Save(ctx context.Context, id string, snap order.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"snapshot":  snap,
		"updatedAt": time.Now().UTC(),
	}}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
