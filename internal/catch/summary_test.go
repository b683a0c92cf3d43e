package catch

import (
	"math"
	"testing"

	"github.com/mmynk/myfishingdiary/internal/models"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		fish         []models.Fish
		validateFunc func(t *testing.T, s *Summary)
	}{
		{
			name: "empty catch",
			fish: nil,
			validateFunc: func(t *testing.T, s *Summary) {
				if s.Count != 0 {
					t.Errorf("Count = %d, want 0", s.Count)
				}
				if s.Heaviest != nil {
					t.Errorf("Heaviest = %+v, want nil", s.Heaviest)
				}
				if s.Fish == nil || s.Species == nil {
					t.Error("Fish and Species should be empty, not nil")
				}
			},
		},
		{
			name: "sorted heaviest first with species totals",
			fish: []models.Fish{
				{Species: "Pike", Weight: 2.5},
				{Species: "Carp", Weight: 5.21},
				{Species: "Pike", Weight: 3.0},
				{Species: "Perch"},
			},
			validateFunc: func(t *testing.T, s *Summary) {
				if s.Count != 4 {
					t.Errorf("Count = %d, want 4", s.Count)
				}
				if math.Abs(s.TotalWeight-10.71) > 0.001 {
					t.Errorf("TotalWeight = %v, want 10.71", s.TotalWeight)
				}
				wantOrder := []float64{5.21, 3.0, 2.5, 0}
				for i, w := range wantOrder {
					if s.Fish[i].Weight != w {
						t.Errorf("Fish[%d].Weight = %v, want %v", i, s.Fish[i].Weight, w)
					}
				}
				if s.Heaviest == nil || s.Heaviest.Species != "Carp" {
					t.Errorf("Heaviest = %+v, want Carp", s.Heaviest)
				}
				if len(s.Species) != 3 {
					t.Fatalf("len(Species) = %d, want 3", len(s.Species))
				}
				pike := s.Species[0]
				if pike.Species != "Pike" || pike.Count != 2 || math.Abs(pike.Weight-5.5) > 0.001 {
					t.Errorf("Species[0] = %+v, want Pike x2 5.5kg", pike)
				}
				if s.Species[1].Species != "Carp" || s.Species[2].Species != "Perch" {
					t.Errorf("Species order = %v, want Pike, Carp, Perch", s.Species)
				}
			},
		},
		{
			name: "no weights recorded",
			fish: []models.Fish{{Species: "Trout"}, {Species: "Trout"}},
			validateFunc: func(t *testing.T, s *Summary) {
				if s.Heaviest != nil {
					t.Errorf("Heaviest = %+v, want nil", s.Heaviest)
				}
				if s.Species[0].Count != 2 {
					t.Errorf("Trout count = %d, want 2", s.Species[0].Count)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.fish)
			tt.validateFunc(t, s)
		})
	}
}

func TestSummarizeDoesNotModifyInput(t *testing.T) {
	fish := []models.Fish{{Species: "A", Weight: 1}, {Species: "B", Weight: 2}}
	Summarize(fish)
	if fish[0].Species != "A" {
		t.Errorf("input reordered: %v", fish)
	}
}
