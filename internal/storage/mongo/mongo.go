// Package mongo provides a MongoDB-backed implementation of the storage.Store interface.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mmynk/myfishingdiary/internal/storage"
)

// Ensure MongoStore implements storage.Store
var _ storage.Store = (*MongoStore)(nil)

const connectTimeout = 10 * time.Second

// MongoStore implements storage.Store using MongoDB.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database

	users  *mongo.Collection
	trips  *mongo.Collection
	groups *mongo.Collection
}

// New connects to the MongoDB deployment at uri and uses the named database.
// The connection is verified with a ping before returning.
func New(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		client: client,
		db:     db,
		users:  db.Collection(storage.UsersCollection),
		trips:  db.Collection(storage.TripsCollection),
		groups: db.Collection(storage.FishingGroupsCollection),
	}, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique email index on users and the 2dsphere
// index on trip coordinates. Existing indexes are left untouched.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}

	_, err = s.trips.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "coordinates", Value: "2dsphere"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create coordinates index: %w", err)
	}
	return nil
}

// Count returns the number of documents in a collection.
func (s *MongoStore) Count(ctx context.Context, collection string) (int64, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return 0, err
	}
	n, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

// Drop removes a collection together with its indexes.
func (s *MongoStore) Drop(ctx context.Context, collection string) error {
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}
	if err := coll.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) collection(name string) (*mongo.Collection, error) {
	switch name {
	case storage.UsersCollection:
		return s.users, nil
	case storage.TripsCollection:
		return s.trips, nil
	case storage.FishingGroupsCollection:
		return s.groups, nil
	}
	return nil, fmt.Errorf("unknown collection: %s", name)
}

// notFound translates the driver's no-documents error into storage.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	return err
}
