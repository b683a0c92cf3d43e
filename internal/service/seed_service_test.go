package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/myfishingdiary/internal/auth"
	"github.com/mmynk/myfishingdiary/internal/storage"
	"github.com/mmynk/myfishingdiary/internal/storage/sqlite"
)

func TestSeedAndDrop(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()
	svc := NewSeedService(store, nil).WithCost(bcrypt.MinCost)

	msg, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg, "Saved user: Janez Novak\n")
	assert.Contains(t, msg, "Saved trip: Carp fishing on lake Bled\n")
	assert.Contains(t, msg, "Saved fishing group: Ljubljana fishing club\n")

	users, err := store.Count(ctx, storage.UsersCollection)
	require.NoError(t, err)
	assert.Equal(t, int64(3), users)

	// Seeded passwords work with the regular login flow.
	_, err = auth.NewPasswordAuthenticator(store).Authenticate(ctx, "janez@example.com", "janez-password")
	require.NoError(t, err)

	t.Run("second seed is a no-op", func(t *testing.T) {
		msg, err := svc.Seed(ctx)
		require.NoError(t, err)
		assert.Empty(t, msg)
	})

	t.Run("drop reports non-empty collections", func(t *testing.T) {
		msg, err := svc.Drop(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"'Users' successfully deleted.",
			"'Trips' successfully deleted.",
			"'FishingGroups' successfully deleted.",
		}, strings.Split(strings.TrimSpace(msg), "\n"))

		msg, err = svc.Drop(ctx)
		require.NoError(t, err)
		assert.Empty(t, msg)
	})
}
