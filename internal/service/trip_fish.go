package service

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mmynk/myfishingdiary/internal/catch"
	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/storage"
)

// FishInput carries the user-editable fields of a fish. A nil Weight means
// "not provided".
type FishInput struct {
	Species     string
	Weight      *float64
	Description string
}

// FishResult is a single fish together with the trip it belongs to.
type FishResult struct {
	Trip   models.TripRef `json:"trip"`
	Fish   models.Fish    `json:"fish"`
	Status string         `json:"status"`
}

func validWeight(w *float64) bool {
	return w == nil || (*w >= 0 && !math.IsNaN(*w) && !math.IsInf(*w, 0))
}

// AddFish appends a fish to the trip's catch.
func (s *TripService) AddFish(ctx context.Context, authorEmail, tripID string, in FishInput) (*models.Fish, error) {
	trip, author, err := s.tripForAuthor(ctx, authorEmail, tripID)
	if err != nil {
		return nil, err
	}
	if !author.CanModify(trip.User) {
		return nil, errAccessDenied("Not authorized to add fish to this trip.")
	}
	if in.Species == "" {
		return nil, errValidation("Body parameter 'species' is required.")
	}
	if !validWeight(in.Weight) {
		return nil, errValidation("Parameter 'weight' must be a non-negative number.")
	}

	fish := models.Fish{
		ID:          primitive.NewObjectID(),
		Species:     in.Species,
		Description: in.Description,
	}
	if in.Weight != nil {
		fish.Weight = *in.Weight
	}
	if err := s.store.AddFish(ctx, trip.ID, fish); err != nil {
		return nil, notFoundAs(err, "Trip with id '%s' not found.", tripID)
	}
	s.logger.Info("Fish added", "trip_id", tripID, "fish_id", fish.ID.Hex(), "species", fish.Species)
	return &fish, nil
}

// CatchSummary returns the trip's fish sorted heaviest first with totals.
func (s *TripService) CatchSummary(ctx context.Context, tripID string) (*catch.Summary, error) {
	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return catch.Summarize(trip.Fish), nil
}

// GetFish returns one fish of a trip.
func (s *TripService) GetFish(ctx context.Context, tripID, fishID string) (*FishResult, error) {
	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	fish, err := findFish(trip, fishID)
	if err != nil {
		return nil, err
	}
	return &FishResult{
		Trip:   models.TripRef{ID: trip.ID, Name: trip.Name},
		Fish:   *fish,
		Status: "OK",
	}, nil
}

// UpdateFish changes the provided fields of a fish.
func (s *TripService) UpdateFish(ctx context.Context, authorEmail, tripID, fishID string, in FishInput) (*models.Fish, error) {
	trip, author, err := s.tripForAuthor(ctx, authorEmail, tripID)
	if err != nil {
		return nil, err
	}
	if !author.CanModify(trip.User) {
		return nil, errAccessDenied("Not authorized to update this fish.")
	}
	fish, err := findFish(trip, fishID)
	if err != nil {
		return nil, err
	}
	if in.Species == "" && in.Weight == nil && in.Description == "" {
		return nil, errValidation("At least one of parameters 'species', 'weight' and 'description' are required.")
	}
	if !validWeight(in.Weight) {
		return nil, errValidation("Parameter 'weight' must be a non-negative number.")
	}

	patch := storage.FishPatch{Weight: in.Weight}
	if in.Species != "" {
		patch.Species = &in.Species
	}
	if in.Description != "" {
		patch.Description = &in.Description
	}

	updated, err := s.store.UpdateFish(ctx, trip.ID, fish.ID, patch)
	if err != nil {
		return nil, notFoundAs(err, "Fish with id '%s' not found.", fishID)
	}
	s.logger.Info("Fish updated", "trip_id", tripID, "fish_id", fishID)
	return updated, nil
}

// DeleteFish removes a fish from the trip's catch.
func (s *TripService) DeleteFish(ctx context.Context, authorEmail, tripID, fishID string) error {
	trip, author, err := s.tripForAuthor(ctx, authorEmail, tripID)
	if err != nil {
		return err
	}
	if !author.CanModify(trip.User) {
		return errAccessDenied("Not authorized to delete this fish.")
	}
	fish, err := findFish(trip, fishID)
	if err != nil {
		return err
	}
	if err := s.store.RemoveFish(ctx, trip.ID, fish.ID); err != nil {
		return notFoundAs(err, "Fish with id '%s' not found.", fishID)
	}
	s.logger.Info("Fish deleted", "trip_id", tripID, "fish_id", fishID)
	return nil
}

func findFish(trip *models.Trip, fishID string) (*models.Fish, error) {
	if len(trip.Fish) == 0 {
		return nil, errNotFound("No fish found.")
	}
	id, err := parseID("fish", fishID)
	if err != nil {
		return nil, err
	}
	fish := trip.FindFish(id)
	if fish == nil {
		return nil, errNotFound("Fish with id '%s' not found.", fishID)
	}
	return fish, nil
}
