package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// FishingGroup is a named collection of user accounts.
type FishingGroup struct {
	// ID is the unique identifier for the group.
	ID primitive.ObjectID `bson:"_id" json:"_id"`

	// Name is the display name of the group (e.g., "Ljubljana fishing club").
	Name string `bson:"name" json:"name"`

	// Creator is the email of the user who created the group.
	// The creator is always a member and cannot be removed.
	Creator string `bson:"creator" json:"creator"`

	// Users is the list of member emails, without duplicates.
	Users []string `bson:"users" json:"users"`

	// Description is an optional free-text description.
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}
