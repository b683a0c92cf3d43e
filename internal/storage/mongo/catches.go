package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/storage"
)

// AddFish pushes a fish onto the trip's catch.
func (s *MongoStore) AddFish(ctx context.Context, tripID primitive.ObjectID, fish models.Fish) error {
	return s.updateTripArray(ctx, bson.M{"_id": tripID}, bson.M{"$push": bson.M{"fish": fish}})
}

// UpdateFish sets the patched fields of one fish through the positional operator.
func (s *MongoStore) UpdateFish(ctx context.Context, tripID, fishID primitive.ObjectID, patch storage.FishPatch) (*models.Fish, error) {
	filter := bson.M{"_id": tripID, "fish._id": fishID}

	set := bson.D{}
	if patch.Species != nil {
		set = append(set, bson.E{Key: "fish.$.species", Value: *patch.Species})
	}
	if patch.Weight != nil {
		set = append(set, bson.E{Key: "fish.$.weight", Value: *patch.Weight})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "fish.$.description", Value: *patch.Description})
	}

	var (
		trip *models.Trip
		err  error
	)
	if len(set) == 0 {
		trip, err = s.findTrip(ctx, filter)
	} else {
		trip, err = s.findAndUpdateTrip(ctx, filter, bson.M{"$set": set})
	}
	if err != nil {
		return nil, err
	}
	fish := trip.FindFish(fishID)
	if fish == nil {
		return nil, storage.ErrNotFound
	}
	return fish, nil
}

// RemoveFish pulls one fish from the trip's catch.
func (s *MongoStore) RemoveFish(ctx context.Context, tripID, fishID primitive.ObjectID) error {
	return s.updateTripArray(ctx,
		bson.M{"_id": tripID, "fish._id": fishID},
		bson.M{"$pull": bson.M{"fish": bson.M{"_id": fishID}}},
	)
}

// AddComment pushes a comment onto the trip.
func (s *MongoStore) AddComment(ctx context.Context, tripID primitive.ObjectID, comment models.Comment) error {
	return s.updateTripArray(ctx, bson.M{"_id": tripID}, bson.M{"$push": bson.M{"comments": comment}})
}

// UpdateComment replaces the text of one comment.
func (s *MongoStore) UpdateComment(ctx context.Context, tripID, commentID primitive.ObjectID, text string) (*models.Comment, error) {
	trip, err := s.findAndUpdateTrip(ctx,
		bson.M{"_id": tripID, "comments._id": commentID},
		bson.M{"$set": bson.M{"comments.$.comment": text}},
	)
	if err != nil {
		return nil, err
	}
	comment := trip.FindComment(commentID)
	if comment == nil {
		return nil, storage.ErrNotFound
	}
	return comment, nil
}

// RemoveComment pulls one comment from the trip.
func (s *MongoStore) RemoveComment(ctx context.Context, tripID, commentID primitive.ObjectID) error {
	return s.updateTripArray(ctx,
		bson.M{"_id": tripID, "comments._id": commentID},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}},
	)
}

func (s *MongoStore) updateTripArray(ctx context.Context, filter, update bson.M) error {
	res, err := s.trips.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
