package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trip is a logged fishing outing with location and catches.
type Trip struct {
	// ID is the unique identifier for the trip.
	ID primitive.ObjectID `bson:"_id" json:"_id"`

	// Name is the title of the trip (e.g., "Carp fishing on lake Bled").
	Name string `bson:"name" json:"name"`

	// Time is when the trip took place.
	Time time.Time `bson:"time" json:"time"`

	// Type is the kind of fishing (e.g., "Carp fishing", "Sea fishing").
	Type string `bson:"type" json:"type"`

	// User is the email of the fisherman who owns the trip.
	User string `bson:"user" json:"user"`

	// Description is an optional free-text description.
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	// Coordinates is the GPS location as [longitude, latitude].
	// Either empty or exactly two elements.
	Coordinates []float64 `bson:"coordinates,omitempty" json:"coordinates,omitempty"`

	// Fish are the catches of the trip.
	Fish []Fish `bson:"fish" json:"fish"`

	// Comments left by other users. Omitted from geospatial query results.
	Comments []Comment `bson:"comments,omitempty" json:"comments,omitempty"`
}

// Normalize replaces nil slices with empty ones so clients always see a fish list.
func (t *Trip) Normalize() {
	if t.Fish == nil {
		t.Fish = []Fish{}
	}
}

// FindFish returns the fish with the given id, or nil.
func (t *Trip) FindFish(id primitive.ObjectID) *Fish {
	for i := range t.Fish {
		if t.Fish[i].ID == id {
			return &t.Fish[i]
		}
	}
	return nil
}

// RemoveFish deletes the fish with the given id and reports whether it existed.
func (t *Trip) RemoveFish(id primitive.ObjectID) bool {
	for i := range t.Fish {
		if t.Fish[i].ID == id {
			t.Fish = append(t.Fish[:i], t.Fish[i+1:]...)
			return true
		}
	}
	return false
}

// FindComment returns the comment with the given id, or nil.
func (t *Trip) FindComment(id primitive.ObjectID) *Comment {
	for i := range t.Comments {
		if t.Comments[i].ID == id {
			return &t.Comments[i]
		}
	}
	return nil
}

// RemoveComment deletes the comment with the given id and reports whether it existed.
func (t *Trip) RemoveComment(id primitive.ObjectID) bool {
	for i := range t.Comments {
		if t.Comments[i].ID == id {
			t.Comments = append(t.Comments[:i], t.Comments[i+1:]...)
			return true
		}
	}
	return false
}

// Fish is a catch entry nested in a trip.
type Fish struct {
	ID primitive.ObjectID `bson:"_id" json:"_id"`

	// Species of the fish (e.g., "Carp").
	Species string `bson:"species" json:"species"`

	// Weight in kilograms. Zero means unknown.
	Weight float64 `bson:"weight,omitempty" json:"weight,omitempty"`

	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Comment is a remark left on a trip.
type Comment struct {
	ID primitive.ObjectID `bson:"_id" json:"_id"`

	// Author is the email of the user who wrote the comment.
	Author string `bson:"author" json:"author"`

	// Comment is the text content.
	Comment string `bson:"comment" json:"comment"`

	// CreatedOn is when the comment was posted.
	CreatedOn time.Time `bson:"createdOn" json:"createdOn"`
}

// NearbyTrip is a trip returned by a geospatial query, with its distance from
// the query point in metres.
type NearbyTrip struct {
	Trip     `bson:",inline"`
	Distance float64 `bson:"distance" json:"distance"`
}

// TripRef is the short form of a trip embedded in fish and comment responses.
type TripRef struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
}
