// Package catch computes statistics over the fish caught on a trip.
package catch

import (
	"sort"

	"github.com/mmynk/myfishingdiary/internal/models"
)

// SpeciesCount is the number and combined weight of fish of one species.
type SpeciesCount struct {
	Species string  `json:"species"`
	Count   int     `json:"count"`
	Weight  float64 `json:"weight"`
}

// Summary describes the catch of one trip.
type Summary struct {
	Fish        []models.Fish  `json:"fish"`
	Count       int            `json:"count"`
	TotalWeight float64        `json:"totalWeight"`
	Heaviest    *models.Fish   `json:"heaviest,omitempty"`
	Species     []SpeciesCount `json:"species"`
}

// Summarize sorts fish heaviest first and aggregates them per species.
// Fish without a recorded weight count towards their species but add no weight.
// The input slice is not modified.
func Summarize(fish []models.Fish) *Summary {
	sorted := make([]models.Fish, len(fish))
	copy(sorted, fish)
	// Stable so equally heavy fish keep the order they were logged in.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})

	summary := &Summary{
		Fish:    sorted,
		Count:   len(sorted),
		Species: []SpeciesCount{},
	}
	if len(sorted) > 0 && sorted[0].Weight > 0 {
		summary.Heaviest = &sorted[0]
	}

	index := make(map[string]int)
	for _, f := range sorted {
		summary.TotalWeight += f.Weight

		i, ok := index[f.Species]
		if !ok {
			i = len(summary.Species)
			index[f.Species] = i
			summary.Species = append(summary.Species, SpeciesCount{Species: f.Species})
		}
		summary.Species[i].Count++
		summary.Species[i].Weight += f.Weight
	}

	// Most caught species first, ties broken by name.
	sort.SliceStable(summary.Species, func(i, j int) bool {
		a, b := summary.Species[i], summary.Species[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Species < b.Species
	})

	return summary
}
