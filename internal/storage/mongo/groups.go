package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/storage"
)

// CreateGroup inserts a new fishing group.
func (s *MongoStore) CreateGroup(ctx context.Context, group *models.FishingGroup) error {
	if group.ID.IsZero() {
		group.ID = primitive.NewObjectID()
	}
	if group.Users == nil {
		group.Users = []string{}
	}
	if _, err := s.groups.InsertOne(ctx, group); err != nil {
		return fmt.Errorf("failed to insert fishing group: %w", err)
	}
	return nil
}

// GetGroup retrieves a fishing group by id.
func (s *MongoStore) GetGroup(ctx context.Context, id primitive.ObjectID) (*models.FishingGroup, error) {
	var group models.FishingGroup
	if err := s.groups.FindOne(ctx, bson.M{"_id": id}).Decode(&group); err != nil {
		if err = notFound(err); err == storage.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get fishing group: %w", err)
	}
	return &group, nil
}

// ListGroups returns every fishing group.
func (s *MongoStore) ListGroups(ctx context.Context) ([]models.FishingGroup, error) {
	cur, err := s.groups.Find(ctx, bson.D{}, options.Find().SetSort(byID))
	if err != nil {
		return nil, fmt.Errorf("failed to query fishing groups: %w", err)
	}
	var groups []models.FishingGroup
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode fishing groups: %w", err)
	}
	return groups, nil
}

// UpdateGroup sets the patched fields and returns the new document.
func (s *MongoStore) UpdateGroup(ctx context.Context, id primitive.ObjectID, patch storage.GroupPatch) (*models.FishingGroup, error) {
	if patch.Empty() {
		return s.GetGroup(ctx, id)
	}
	set := bson.D{}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}
	return s.findAndUpdateGroup(ctx, id, bson.M{"$set": set})
}

// AddGroupMembers adds the emails to the member list with $addToSet.
func (s *MongoStore) AddGroupMembers(ctx context.Context, id primitive.ObjectID, emails []string) (*models.FishingGroup, error) {
	return s.findAndUpdateGroup(ctx, id, bson.M{"$addToSet": bson.M{"users": bson.M{"$each": emails}}})
}

// RemoveGroupMembers pulls the emails from the member list.
func (s *MongoStore) RemoveGroupMembers(ctx context.Context, id primitive.ObjectID, emails []string) (*models.FishingGroup, error) {
	return s.findAndUpdateGroup(ctx, id, bson.M{"$pull": bson.M{"users": bson.M{"$in": emails}}})
}

func (s *MongoStore) findAndUpdateGroup(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.FishingGroup, error) {
	var group models.FishingGroup
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.groups.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&group); err != nil {
		if err = notFound(err); err == storage.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update fishing group: %w", err)
	}
	return &group, nil
}

// DeleteGroup removes a fishing group.
func (s *MongoStore) DeleteGroup(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.groups.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete fishing group: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
