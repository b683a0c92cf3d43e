package sqlite

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/storage"
)

// AddFish appends a fish to the trip's catch.
func (s *SQLiteStore) AddFish(ctx context.Context, tripID primitive.ObjectID, fish models.Fish) error {
	_, err := s.modifyTrip(ctx, tripID, func(trip *models.Trip) error {
		trip.Fish = append(trip.Fish, fish)
		return nil
	})
	return err
}

// UpdateFish applies patch to one fish of the trip.
func (s *SQLiteStore) UpdateFish(ctx context.Context, tripID, fishID primitive.ObjectID, patch storage.FishPatch) (*models.Fish, error) {
	var updated models.Fish
	_, err := s.modifyTrip(ctx, tripID, func(trip *models.Trip) error {
		fish := trip.FindFish(fishID)
		if fish == nil {
			return storage.ErrNotFound
		}
		patch.Apply(fish)
		updated = *fish
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveFish deletes one fish from the trip's catch.
func (s *SQLiteStore) RemoveFish(ctx context.Context, tripID, fishID primitive.ObjectID) error {
	_, err := s.modifyTrip(ctx, tripID, func(trip *models.Trip) error {
		if !trip.RemoveFish(fishID) {
			return storage.ErrNotFound
		}
		return nil
	})
	return err
}

// AddComment appends a comment to the trip.
func (s *SQLiteStore) AddComment(ctx context.Context, tripID primitive.ObjectID, comment models.Comment) error {
	_, err := s.modifyTrip(ctx, tripID, func(trip *models.Trip) error {
		trip.Comments = append(trip.Comments, comment)
		return nil
	})
	return err
}

// UpdateComment replaces the text of one comment.
func (s *SQLiteStore) UpdateComment(ctx context.Context, tripID, commentID primitive.ObjectID, text string) (*models.Comment, error) {
	var updated models.Comment
	_, err := s.modifyTrip(ctx, tripID, func(trip *models.Trip) error {
		comment := trip.FindComment(commentID)
		if comment == nil {
			return storage.ErrNotFound
		}
		comment.Comment = text
		updated = *comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveComment deletes one comment from the trip.
func (s *SQLiteStore) RemoveComment(ctx context.Context, tripID, commentID primitive.ObjectID) error {
	_, err := s.modifyTrip(ctx, tripID, func(trip *models.Trip) error {
		if !trip.RemoveComment(commentID) {
			return storage.ErrNotFound
		}
		return nil
	})
	return err
}
