package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mmynk/myfishingdiary/internal/geo"
	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/storage"
)

// byID sorts documents in insertion order; ObjectIDs start with a timestamp.
var byID = bson.D{{Key: "_id", Value: 1}}

// CreateTrip inserts a new trip document.
func (s *MongoStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID.IsZero() {
		trip.ID = primitive.NewObjectID()
	}
	trip.Normalize()
	if _, err := s.trips.InsertOne(ctx, trip); err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip by id.
func (s *MongoStore) GetTrip(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	return s.findTrip(ctx, bson.M{"_id": id})
}

func (s *MongoStore) findTrip(ctx context.Context, filter bson.M) (*models.Trip, error) {
	var trip models.Trip
	if err := s.trips.FindOne(ctx, filter).Decode(&trip); err != nil {
		if err = notFound(err); err == storage.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	trip.Normalize()
	return &trip, nil
}

// ListTrips returns every trip.
func (s *MongoStore) ListTrips(ctx context.Context) ([]models.Trip, error) {
	return s.findTrips(ctx, options.Find().SetSort(byID))
}

// ListTripsPage returns at most limit trips after skipping skip of them.
func (s *MongoStore) ListTripsPage(ctx context.Context, skip, limit int) ([]models.Trip, error) {
	opts := options.Find().SetSort(byID).SetSkip(int64(skip)).SetLimit(int64(limit))
	return s.findTrips(ctx, opts)
}

func (s *MongoStore) findTrips(ctx context.Context, opts *options.FindOptions) ([]models.Trip, error) {
	cur, err := s.trips.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	var trips []models.Trip
	if err := cur.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("failed to decode trips: %w", err)
	}
	for i := range trips {
		trips[i].Normalize()
	}
	return trips, nil
}

// CountTrips returns the total number of trips.
func (s *MongoStore) CountTrips(ctx context.Context) (int64, error) {
	return s.Count(ctx, storage.TripsCollection)
}

// UpdateTrip sets the patched fields in one update and returns the new document.
func (s *MongoStore) UpdateTrip(ctx context.Context, id primitive.ObjectID, patch storage.TripPatch) (*models.Trip, error) {
	filter := bson.M{"_id": id}
	if patch.Empty() {
		return s.findTrip(ctx, filter)
	}

	set := bson.D{}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Time != nil {
		set = append(set, bson.E{Key: "time", Value: patch.Time.UTC()})
	}
	if patch.Type != nil {
		set = append(set, bson.E{Key: "type", Value: *patch.Type})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}
	if patch.Coordinates != nil {
		set = append(set, bson.E{Key: "coordinates", Value: patch.Coordinates})
	}
	return s.findAndUpdateTrip(ctx, filter, bson.M{"$set": set})
}

func (s *MongoStore) findAndUpdateTrip(ctx context.Context, filter, update bson.M) (*models.Trip, error) {
	var trip models.Trip
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.trips.FindOneAndUpdate(ctx, filter, update, opts).Decode(&trip); err != nil {
		if err = notFound(err); err == storage.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}
	trip.Normalize()
	return &trip, nil
}

// DeleteTrip removes a trip.
func (s *MongoStore) DeleteTrip(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.trips.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// NearTrips runs a $geoNear aggregation against the 2dsphere index.
func (s *MongoStore) NearTrips(ctx context.Context, p geo.Point, maxMeters float64, limit int) ([]models.NearbyTrip, error) {
	cur, err := s.trips.Aggregate(ctx, nearPipeline(p, maxMeters, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby trips: %w", err)
	}
	var trips []models.NearbyTrip
	if err := cur.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("failed to decode nearby trips: %w", err)
	}
	for i := range trips {
		trips[i].Normalize()
	}
	return trips, nil
}

// nearPipeline builds the aggregation for NearTrips. Distances are computed
// on the sphere and reported in metres in the "distance" field.
func nearPipeline(p geo.Point, maxMeters float64, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: bson.A{p.Lng, p.Lat}},
			}},
			{Key: "distanceField", Value: "distance"},
			{Key: "maxDistance", Value: maxMeters},
			{Key: "spherical", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "comments", Value: 0}}}},
		{{Key: "$limit", Value: int64(limit)}},
	}
}
