// Package service implements the MyFishingDiary use cases on top of storage.Store.
//
// Services take plain Go values and return models or one of the typed errors
// in errors.go; the HTTP layer maps those onto status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/storage"
)

// parseID converts a path parameter into a document id.
func parseID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errValidation("Invalid %s id '%s'.", kind, id)
	}
	return oid, nil
}

// resolveAuthor loads the user behind an authenticated request.
func resolveAuthor(ctx context.Context, users storage.UserStore, email string) (*models.User, error) {
	if email == "" {
		return nil, errUnauthenticated("No authorization token was found.")
	}
	user, err := users.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errUnauthenticated("User not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load author: %w", err)
	}
	return user, nil
}

// notFoundAs turns storage.ErrNotFound into a NotFoundError with the given
// message and passes other errors through.
func notFoundAs(err error, format string, args ...interface{}) error {
	if errors.Is(err, storage.ErrNotFound) {
		return errNotFound(format, args...)
	}
	return err
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
