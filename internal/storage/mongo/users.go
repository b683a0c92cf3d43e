package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/storage"
)

// CreateUser inserts a new user document.
func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	// $addToSet and $pull need an array, not null.
	if user.FishingGroups == nil {
		user.FishingGroups = []primitive.ObjectID{}
	}

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email.
func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

// GetUserByID retrieves a user by id.
func (s *MongoStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if err = notFound(err); err == storage.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// AddUserGroup adds groupID to the user's memberships unless already present.
func (s *MongoStore) AddUserGroup(ctx context.Context, email string, groupID primitive.ObjectID) error {
	return s.updateUserGroups(ctx, email, bson.M{"$addToSet": bson.M{"fishingGroup": groupID}})
}

// RemoveUserGroup pulls groupID from the user's memberships.
func (s *MongoStore) RemoveUserGroup(ctx context.Context, email string, groupID primitive.ObjectID) error {
	return s.updateUserGroups(ctx, email, bson.M{"$pull": bson.M{"fishingGroup": groupID}})
}

func (s *MongoStore) updateUserGroups(ctx context.Context, email string, update bson.M) error {
	res, err := s.users.UpdateOne(ctx, bson.M{"email": email}, update)
	if err != nil {
		return fmt.Errorf("failed to update user groups: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
