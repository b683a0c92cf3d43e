package storage

import (
	"time"

	"github.com/mmynk/myfishingdiary/internal/models"
)

// TripPatch lists the trip fields to change. Nil fields keep their value.
// Fish and comments are never touched by a patch.
type TripPatch struct {
	Name        *string
	Time        *time.Time
	Type        *string
	Description *string
	Coordinates []float64
}

// Empty reports whether the patch changes nothing.
func (p TripPatch) Empty() bool {
	return p.Name == nil && p.Time == nil && p.Type == nil && p.Description == nil && p.Coordinates == nil
}

// Apply copies the set fields onto t.
func (p TripPatch) Apply(t *models.Trip) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Time != nil {
		t.Time = p.Time.UTC()
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Coordinates != nil {
		t.Coordinates = p.Coordinates
	}
}

// FishPatch lists the fish fields to change.
type FishPatch struct {
	Species     *string
	Weight      *float64
	Description *string
}

func (p FishPatch) Empty() bool {
	return p.Species == nil && p.Weight == nil && p.Description == nil
}

func (p FishPatch) Apply(f *models.Fish) {
	if p.Species != nil {
		f.Species = *p.Species
	}
	if p.Weight != nil {
		f.Weight = *p.Weight
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
}

// GroupPatch lists the group fields to change. Members are changed with
// AddGroupMembers and RemoveGroupMembers.
type GroupPatch struct {
	Name        *string
	Description *string
}

func (p GroupPatch) Empty() bool {
	return p.Name == nil && p.Description == nil
}

func (p GroupPatch) Apply(g *models.FishingGroup) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
}
