package database

import (
	"context"
	"log/slog"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SessionsCollection = "sessions"

// EnsureSessionIndexes lets MongoDB expire form snapshots that have not been
// touched for ttl.
func EnsureSessionIndexes(db *mongo.Database, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(SessionsCollection).Indexes()

	expiryIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "updatedAt", Value: 1}},
		Options: options.Index().
			SetName("updatedAt_ttl").
			SetExpireAfterSeconds(expireAfterSeconds(ttl)),
	}

	slog.Info("EnsureSessionIndexes: creating updatedAt_ttl index")
	_, err := indexes.CreateOne(ctx, expiryIndex)
	if err != nil {
		slog.Error("EnsureSessionIndexes: updatedAt_ttl index error", "error", err)
		return err
	}
	slog.Info("EnsureSessionIndexes: updatedAt_ttl index created")
	return nil
}

// expireAfterSeconds converts ttl to the int32 MongoDB expects, clamped to
// the range the server accepts.
func expireAfterSeconds(ttl time.Duration) int32 {
	secs := ttl / time.Second
	switch {
	case secs < 1:
		return 1
	case secs > math.MaxInt32:
		return math.MaxInt32
	}
	return int32(secs)
}
