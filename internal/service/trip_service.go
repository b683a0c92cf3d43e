package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mmynk/myfishingdiary/internal/geo"
	"github.com/mmynk/myfishingdiary/internal/geocode"
	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/storage"
)

// Defaults for list and geospatial queries.
const (
	DefaultPageSize   = 10
	MaxPageSize       = 1000
	DefaultDistanceKm = 5
	DefaultNearLimit  = 10
)

// TripService manages trips and the fish and comments embedded in them.
type TripService struct {
	store    storage.Store
	geocoder geocode.Geocoder
	logger   *slog.Logger
}

// NewTripService creates a TripService. geocoder may be nil, in which case
// address lookups are rejected.
func NewTripService(store storage.Store, geocoder geocode.Geocoder, logger *slog.Logger) *TripService {
	return &TripService{
		store:    store,
		geocoder: geocoder,
		logger:   loggerOrDefault(logger),
	}
}

// TripInput carries the user-editable fields of a trip. Zero values mean
// "not provided".
type TripInput struct {
	Name        string
	Time        time.Time
	Type        string
	Description string
	Coordinates []float64
}

func (in TripInput) empty() bool {
	return in.Name == "" && in.Time.IsZero() && in.Type == "" && in.Description == "" && in.Coordinates == nil
}

// TripPage is one page of the trip list.
type TripPage struct {
	Trips      []models.Trip `json:"trips"`
	TotalPages int64         `json:"totalPages"`
}

// NearQuery selects trips around a point.
type NearQuery struct {
	Point      geo.Point
	DistanceKm float64
	Limit      int
}

func (q NearQuery) withDefaults() NearQuery {
	if q.DistanceKm <= 0 || math.IsNaN(q.DistanceKm) {
		q.DistanceKm = DefaultDistanceKm
	}
	if q.Limit <= 0 {
		q.Limit = DefaultNearLimit
	}
	return q
}

// ListTrips returns all trips.
func (s *TripService) ListTrips(ctx context.Context) ([]models.Trip, error) {
	trips, err := s.store.ListTrips(ctx)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, errNotFound("No trips found.")
	}
	return trips, nil
}

// ListTripsPage returns take trips after skipping skip of them, together
// with the number of pages of size take.
func (s *TripService) ListTripsPage(ctx context.Context, skip, take int) (*TripPage, error) {
	if skip < 0 {
		skip = 0
	}
	if take <= 0 {
		take = DefaultPageSize
	}
	take = min(take, MaxPageSize)

	total, err := s.store.CountTrips(ctx)
	if err != nil {
		return nil, err
	}
	trips, err := s.store.ListTripsPage(ctx, skip, take)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, errNotFound("No trips found.")
	}

	return &TripPage{
		Trips:      trips,
		TotalPages: pageCount(total, int64(take)),
	}, nil
}

// NearTrips returns trips within q.DistanceKm of q.Point, nearest first.
func (s *TripService) NearTrips(ctx context.Context, q NearQuery) ([]models.NearbyTrip, error) {
	if err := q.Point.Validate(); err != nil {
		return nil, errValidation("%s", err.Error())
	}
	if math.IsInf(q.DistanceKm, 0) {
		return nil, errValidation("Parameter 'distance' must be a finite number.")
	}
	q = q.withDefaults()

	trips, err := s.store.NearTrips(ctx, q.Point, q.DistanceKm*1000, q.Limit)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, errNotFound("No trips found.")
	}
	return trips, nil
}

// NearAddress geocodes address and returns the trips around it.
func (s *TripService) NearAddress(ctx context.Context, address string, distanceKm float64, limit int) ([]models.NearbyTrip, error) {
	if address == "" {
		return nil, errValidation("Query parameter 'address' is required.")
	}
	if s.geocoder == nil {
		return nil, errValidation("Google API key is required")
	}

	p, err := s.geocoder.Geocode(ctx, address)
	if errors.Is(err, geocode.ErrNoResults) {
		return nil, errNotFound("Could not geocode the provided address.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}
	s.logger.Debug("Address geocoded", "address", address, "lng", p.Lng, "lat", p.Lat)

	return s.NearTrips(ctx, NearQuery{Point: p, DistanceKm: distanceKm, Limit: limit})
}

// CreateTrip stores a new trip owned by the author.
func (s *TripService) CreateTrip(ctx context.Context, authorEmail string, in TripInput) (*models.Trip, error) {
	author, err := resolveAuthor(ctx, s.store, authorEmail)
	if err != nil {
		return nil, err
	}
	if in.Name == "" || in.Time.IsZero() || in.Type == "" {
		return nil, errValidation("Parameters 'name', 'time' and 'type' are required.")
	}
	if in.Coordinates != nil {
		if _, err := geo.FromCoordinates(in.Coordinates); err != nil {
			return nil, errValidation("Parameter 'coordinates' is not valid: %s.", err)
		}
	}

	trip := &models.Trip{
		Name:        in.Name,
		Time:        in.Time.UTC(),
		Type:        in.Type,
		User:        author.Email,
		Description: in.Description,
		Coordinates: in.Coordinates,
		Fish:        []models.Fish{},
	}
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return nil, err
	}

	s.logger.Info("Trip created", "trip_id", trip.ID.Hex(), "user", author.Email)
	return trip, nil
}

// GetTrip returns a trip by id.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	id, err := parseID("trip", tripID)
	if err != nil {
		return nil, err
	}
	trip, err := s.store.GetTrip(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errNotFound("Trip with id '%s' not found.", tripID)
	}
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// UpdateTrip changes the provided fields of a trip. Only the owner or an
// admin may do so.
func (s *TripService) UpdateTrip(ctx context.Context, authorEmail, tripID string, in TripInput) (*models.Trip, error) {
	trip, author, err := s.tripForAuthor(ctx, authorEmail, tripID)
	if err != nil {
		return nil, err
	}
	if !author.CanModify(trip.User) {
		return nil, errAccessDenied("Not authorized to update this trip.")
	}
	if in.empty() {
		return nil, errValidation("At least one of parameters 'name', 'time', 'type', 'description' and 'coordinates' is required.")
	}

	var patch storage.TripPatch
	if in.Name != "" {
		patch.Name = &in.Name
	}
	if !in.Time.IsZero() {
		patch.Time = &in.Time
	}
	if in.Type != "" {
		patch.Type = &in.Type
	}
	if in.Description != "" {
		patch.Description = &in.Description
	}
	if in.Coordinates != nil {
		if _, err := geo.FromCoordinates(in.Coordinates); err != nil {
			return nil, errValidation("Parameter 'coordinates' is not valid: %s.", err)
		}
		patch.Coordinates = in.Coordinates
	}

	updated, err := s.store.UpdateTrip(ctx, trip.ID, patch)
	if err != nil {
		return nil, notFoundAs(err, "Trip with id '%s' not found.", tripID)
	}
	s.logger.Info("Trip updated", "trip_id", tripID, "user", author.Email)
	return updated, nil
}

// DeleteTrip removes a trip. Only the owner or an admin may do so.
func (s *TripService) DeleteTrip(ctx context.Context, authorEmail, tripID string) error {
	trip, author, err := s.tripForAuthor(ctx, authorEmail, tripID)
	if err != nil {
		return err
	}
	if !author.CanModify(trip.User) {
		return errAccessDenied("Not authorized to delete this trip.")
	}

	if err := s.store.DeleteTrip(ctx, trip.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errNotFound("Trip with id '%s' not found.", tripID)
		}
		return err
	}
	s.logger.Info("Trip deleted", "trip_id", tripID, "user", author.Email)
	return nil
}

// tripForAuthor loads the trip first, then the author, so a missing trip is
// reported before authentication problems.
func (s *TripService) tripForAuthor(ctx context.Context, authorEmail, tripID string) (*models.Trip, *models.User, error) {
	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	author, err := resolveAuthor(ctx, s.store, authorEmail)
	if err != nil {
		return nil, nil, err
	}
	return trip, author, nil
}

// pageCount returns ceil(total/size) without overflowing near MaxInt64.
func pageCount(total, size int64) int64 {
	n := total / size
	if total%size != 0 {
		n++
	}
	return n
}
