package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	svc := newTripService(t)
	ctx := context.Background()

	trip, err := svc.CreateTrip(ctx, "owner@example.com", TripInput{Name: "Bled", Time: tripTime, Type: "t"})
	require.NoError(t, err)
	tripID := trip.ID.Hex()

	t.Run("no comments yet", func(t *testing.T) {
		_, err := svc.GetComment(ctx, tripID, newID())
		nerr := requireErrorType[*NotFoundError](t, err)
		assert.Equal(t, "No comments found.", nerr.Message)
	})

	t.Run("comment required", func(t *testing.T) {
		_, err := svc.AddComment(ctx, "other@example.com", tripID, "")
		requireErrorType[*ValidationError](t, err)
	})

	comment, err := svc.AddComment(ctx, "other@example.com", tripID, "Nice catch!")
	require.NoError(t, err)
	assert.Equal(t, "other@example.com", comment.Author)
	assert.False(t, comment.CreatedOn.IsZero())

	t.Run("get", func(t *testing.T) {
		res, err := svc.GetComment(ctx, tripID, comment.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "OK", res.Status)
		assert.Equal(t, "Nice catch!", res.Comment.Comment)
		assert.Equal(t, "Bled", res.Trip.Name)
	})

	t.Run("comment author may update", func(t *testing.T) {
		updated, err := svc.UpdateComment(ctx, "other@example.com", tripID, comment.ID.Hex(), "Great catch!")
		require.NoError(t, err)
		assert.Equal(t, "Great catch!", updated.Comment)
	})

	t.Run("trip owner may update", func(t *testing.T) {
		_, err := svc.UpdateComment(ctx, "owner@example.com", tripID, comment.ID.Hex(), "edited")
		require.NoError(t, err)
	})

	t.Run("third user is denied", func(t *testing.T) {
		stranger := "stranger@example.com"
		require.NoError(t, svc.store.CreateUser(ctx, newUser(stranger)))
		_, err := svc.UpdateComment(ctx, stranger, tripID, comment.ID.Hex(), "spam")
		requireErrorType[*AccessDeniedError](t, err)
		err = svc.DeleteComment(ctx, stranger, tripID, comment.ID.Hex())
		requireErrorType[*AccessDeniedError](t, err)
	})

	t.Run("empty update", func(t *testing.T) {
		_, err := svc.UpdateComment(ctx, "owner@example.com", tripID, comment.ID.Hex(), "")
		verr := requireErrorType[*ValidationError](t, err)
		assert.Equal(t, "Parameter 'comment' is required.", verr.Message)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteComment(ctx, "admin@example.com", tripID, comment.ID.Hex()))
		got, err := svc.GetTrip(ctx, tripID)
		require.NoError(t, err)
		assert.Empty(t, got.Comments)
	})
}

func TestConcurrentCommentsAreAllStored(t *testing.T) {
	svc := newTripService(t)
	ctx := context.Background()

	trip, err := svc.CreateTrip(ctx, "owner@example.com", TripInput{Name: "Bled", Time: tripTime, Type: "t"})
	require.NoError(t, err)
	tripID := trip.ID.Hex()

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddComment(ctx, "other@example.com", tripID, fmt.Sprintf("c%d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := svc.GetTrip(ctx, tripID)
	require.NoError(t, err)
	assert.Len(t, got.Comments, writers)

	// Deleting while others comment must not resurrect or drop anything.
	first := got.Comments[0].ID
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, svc.DeleteComment(ctx, "owner@example.com", tripID, first.Hex()))
	}()
	go func() {
		defer wg.Done()
		_, err := svc.AddComment(ctx, "admin@example.com", tripID, "late")
		assert.NoError(t, err)
	}()
	wg.Wait()

	got, err = svc.GetTrip(ctx, tripID)
	require.NoError(t, err)
	assert.Len(t, got.Comments, writers)
	assert.Nil(t, got.FindComment(first))
}
