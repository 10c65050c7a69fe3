// internal/workers/listings/search-listings/models.go
package searchlistings

import (
	"rooms-workers/internal/geo"
	"rooms-workers/internal/models"
)

// Result orderings reported in Output.SortedBy.
const (
	SortedByRent     = "rent"
	SortedByDistance = "distance"
)

type Input struct {
	City           string     `json:"city"`
	Locality       string     `json:"locality,omitempty"`
	MaxRent        *float64   `json:"maxRent,omitempty"`
	Size           int        `json:"size,omitempty"`
	ReferencePoint *geo.Point `json:"referencePoint,omitempty"`
}

type Output struct {
	Listings  []models.Listing `json:"listings"`
	TotalHits int64            `json:"totalHits"`
	TookMs    int64            `json:"tookMs"`
	SortedBy  string           `json:"sortedBy"`
}
