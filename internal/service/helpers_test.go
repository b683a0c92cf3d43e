package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mmynk/myfishingdiary/internal/geo"
	"github.com/mmynk/myfishingdiary/internal/geocode"
	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/storage/sqlite"
)

// newTestStore creates a sqlite store in a temp directory with three users:
// owner@example.com, other@example.com and admin@example.com (admin).
func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, u := range []*models.User{
		{Email: "owner@example.com", Name: "Owner", PasswordHash: "x"},
		{Email: "other@example.com", Name: "Other", PasswordHash: "x"},
		{Email: "admin@example.com", Name: "Admin", PasswordHash: "x", Role: models.RoleAdmin},
	} {
		require.NoError(t, store.CreateUser(ctx, u))
	}
	return store
}

// fakeGeocoder resolves addresses from a fixed table.
type fakeGeocoder map[string]geo.Point

func (f fakeGeocoder) Geocode(ctx context.Context, address string) (geo.Point, error) {
	p, ok := f[address]
	if !ok {
		return geo.Point{}, geocode.ErrNoResults
	}
	return p, nil
}

// requireErrorType asserts err is (or wraps) an error of type *T.
func requireErrorType[T error](t *testing.T, err error) T {
	t.Helper()
	var target T
	require.Error(t, err)
	require.True(t, errors.As(err, &target), "got %T: %v", err, err)
	return target
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func newUser(email string) *models.User {
	return models.NewUser(email, email, "x")
}
