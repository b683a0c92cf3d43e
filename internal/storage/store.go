// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mmynk/myfishingdiary/internal/geo"
	"github.com/mmynk/myfishingdiary/internal/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique key (user email) is already taken.
	ErrDuplicate = errors.New("duplicate key")
)

// Collection names, shared by all backends.
const (
	UsersCollection         = "Users"
	TripsCollection         = "Trips"
	FishingGroupsCollection = "FishingGroups"
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user. A zero ID is replaced with a fresh one.
	// Returns ErrDuplicate if the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// AddUserGroup appends groupID to the user's memberships if not present.
	AddUserGroup(ctx context.Context, email string, groupID primitive.ObjectID) error

	// RemoveUserGroup drops groupID from the user's memberships.
	RemoveUserGroup(ctx context.Context, email string, groupID primitive.ObjectID) error
}

// TripStore persists trips together with their embedded fish and comments.
type TripStore interface {
	// CreateTrip inserts a new trip. A zero ID is replaced with a fresh one.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	GetTrip(ctx context.Context, id primitive.ObjectID) (*models.Trip, error)

	ListTrips(ctx context.Context) ([]models.Trip, error)

	// ListTripsPage returns at most limit trips after skipping skip of them.
	ListTripsPage(ctx context.Context, skip, limit int) ([]models.Trip, error)

	CountTrips(ctx context.Context) (int64, error)

	// UpdateTrip applies patch to the trip's own fields and returns the
	// stored result. Returns ErrNotFound if the trip does not exist.
	UpdateTrip(ctx context.Context, id primitive.ObjectID, patch TripPatch) (*models.Trip, error)

	DeleteTrip(ctx context.Context, id primitive.ObjectID) error

	// NearTrips returns up to limit trips within maxMeters of p, nearest first.
	// Comments are not loaded.
	NearTrips(ctx context.Context, p geo.Point, maxMeters float64, limit int) ([]models.NearbyTrip, error)

	// The operations below change one element of a trip's embedded arrays
	// atomically, so concurrent writers never overwrite each other. They
	// return ErrNotFound if the trip or the element does not exist.

	AddFish(ctx context.Context, tripID primitive.ObjectID, fish models.Fish) error
	UpdateFish(ctx context.Context, tripID, fishID primitive.ObjectID, patch FishPatch) (*models.Fish, error)
	RemoveFish(ctx context.Context, tripID, fishID primitive.ObjectID) error

	AddComment(ctx context.Context, tripID primitive.ObjectID, comment models.Comment) error
	UpdateComment(ctx context.Context, tripID, commentID primitive.ObjectID, text string) (*models.Comment, error)
	RemoveComment(ctx context.Context, tripID, commentID primitive.ObjectID) error
}

// GroupStore persists fishing groups.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *models.FishingGroup) error
	GetGroup(ctx context.Context, id primitive.ObjectID) (*models.FishingGroup, error)
	ListGroups(ctx context.Context) ([]models.FishingGroup, error)
	UpdateGroup(ctx context.Context, id primitive.ObjectID, patch GroupPatch) (*models.FishingGroup, error)
	DeleteGroup(ctx context.Context, id primitive.ObjectID) error

	// AddGroupMembers appends the emails not yet in the member list.
	AddGroupMembers(ctx context.Context, id primitive.ObjectID, emails []string) (*models.FishingGroup, error)

	// RemoveGroupMembers drops the emails from the member list.
	RemoveGroupMembers(ctx context.Context, id primitive.ObjectID, emails []string) (*models.FishingGroup, error)
}

// Store defines the full set of storage operations.
// This abstraction allows swapping storage backends (MongoDB, SQLite)
// without changing the service layer.
type Store interface {
	UserStore
	TripStore
	GroupStore

	// EnsureIndexes creates the unique email index and the trip geo index.
	EnsureIndexes(ctx context.Context) error

	// Count returns the number of documents in a collection.
	Count(ctx context.Context, collection string) (int64, error)

	// Drop removes a collection and all its documents.
	Drop(ctx context.Context, collection string) error

	// Close releases any resources held by the store.
	Close() error
}
