package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mmynk/myfishingdiary/internal/geo"
	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/storage"
)

const tripColumns = "id, name, time, type, user_email, description, lng, lat, fish, comments"

// CreateTrip persists a new trip to the database.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID.IsZero() {
		trip.ID = primitive.NewObjectID()
	}
	trip.Normalize()

	args, err := tripArgs(trip)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO trips ("+tripColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		append([]any{trip.ID.Hex()}, args...)...,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("trip %s: %w", trip.ID.Hex(), storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip by ID, including fish and comments.
func (s *SQLiteStore) GetTrip(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+tripColumns+" FROM trips WHERE id = ?", id.Hex())
	trip, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

// ListTrips returns all trips in insertion order.
func (s *SQLiteStore) ListTrips(ctx context.Context) ([]models.Trip, error) {
	return s.queryTrips(ctx, "SELECT "+tripColumns+" FROM trips ORDER BY rowid")
}

// ListTripsPage returns one page of trips in insertion order.
func (s *SQLiteStore) ListTripsPage(ctx context.Context, skip, limit int) ([]models.Trip, error) {
	return s.queryTrips(ctx,
		"SELECT "+tripColumns+" FROM trips ORDER BY rowid LIMIT ? OFFSET ?",
		limit, skip,
	)
}

// CountTrips returns the total number of trips.
func (s *SQLiteStore) CountTrips(ctx context.Context) (int64, error) {
	return s.Count(ctx, storage.TripsCollection)
}

// UpdateTrip applies patch to the trip's own fields.
func (s *SQLiteStore) UpdateTrip(ctx context.Context, id primitive.ObjectID, patch storage.TripPatch) (*models.Trip, error) {
	return s.modifyTrip(ctx, id, func(trip *models.Trip) error {
		patch.Apply(trip)
		return nil
	})
}

// modifyTrip reads a trip, lets fn change it and writes it back within one
// transaction. The store has a single connection, so concurrent calls run
// one after another and never see a stale trip.
func (s *SQLiteStore) modifyTrip(ctx context.Context, id primitive.ObjectID, fn func(*models.Trip) error) (*models.Trip, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	trip, err := scanTrip(tx.QueryRowContext(ctx, "SELECT "+tripColumns+" FROM trips WHERE id = ?", id.Hex()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	if err := fn(trip); err != nil {
		return nil, err
	}
	trip.Normalize()

	args, err := tripArgs(trip)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE trips
		SET name = ?, time = ?, type = ?, user_email = ?, description = ?,
		    lng = ?, lat = ?, fish = ?, comments = ?
		WHERE id = ?`,
		append(args, id.Hex())...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return trip, nil
}

// DeleteTrip removes a trip by ID.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", id.Hex())
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// NearTrips computes great-circle distances in Go; SQLite has no spherical index.
func (s *SQLiteStore) NearTrips(ctx context.Context, p geo.Point, maxMeters float64, limit int) ([]models.NearbyTrip, error) {
	trips, err := s.queryTrips(ctx,
		"SELECT "+tripColumns+" FROM trips WHERE lng IS NOT NULL AND lat IS NOT NULL ORDER BY rowid",
	)
	if err != nil {
		return nil, err
	}

	nearby := []models.NearbyTrip{}
	for _, trip := range trips {
		at, err := geo.FromCoordinates(trip.Coordinates)
		if err != nil {
			continue
		}
		d := geo.Distance(p, at)
		if d > maxMeters {
			continue
		}
		trip.Comments = nil
		nearby = append(nearby, models.NearbyTrip{Trip: trip, Distance: d})
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].Distance < nearby[j].Distance
	})
	if limit > 0 && len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

func (s *SQLiteStore) queryTrips(ctx context.Context, query string, args ...any) ([]models.Trip, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := []models.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, *trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}
	return trips, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(row scanner) (*models.Trip, error) {
	var (
		id, when, fish, comments string
		description              sql.NullString
		lng, lat                 sql.NullFloat64
	)
	trip := &models.Trip{}
	if err := row.Scan(&id, &trip.Name, &when, &trip.Type, &trip.User, &description,
		&lng, &lat, &fish, &comments); err != nil {
		return nil, err
	}

	var err error
	if trip.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("corrupt trip id %q: %w", id, err)
	}
	if trip.Time, err = time.Parse(time.RFC3339Nano, when); err != nil {
		return nil, fmt.Errorf("corrupt trip time %q: %w", when, err)
	}
	trip.Description = description.String
	if lng.Valid && lat.Valid {
		trip.Coordinates = []float64{lng.Float64, lat.Float64}
	}
	if err := json.Unmarshal([]byte(fish), &trip.Fish); err != nil {
		return nil, fmt.Errorf("corrupt fish of trip %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(comments), &trip.Comments); err != nil {
		return nil, fmt.Errorf("corrupt comments of trip %s: %w", id, err)
	}
	trip.Normalize()
	return trip, nil
}

// tripArgs returns the column values of a trip, excluding the id.
func tripArgs(trip *models.Trip) ([]any, error) {
	fish, err := json.Marshal(trip.Fish)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fish: %w", err)
	}
	comments := []byte("[]")
	if len(trip.Comments) > 0 {
		if comments, err = json.Marshal(trip.Comments); err != nil {
			return nil, fmt.Errorf("failed to encode comments: %w", err)
		}
	}

	var description, lng, lat any
	if trip.Description != "" {
		description = trip.Description
	}
	if len(trip.Coordinates) == 2 {
		lng, lat = trip.Coordinates[0], trip.Coordinates[1]
	}

	return []any{
		trip.Name,
		trip.Time.UTC().Format(time.RFC3339Nano),
		trip.Type,
		trip.User,
		description,
		lng,
		lat,
		string(fish),
		string(comments),
	}, nil
}
