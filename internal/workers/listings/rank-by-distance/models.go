// internal/workers/listings/rank-by-distance/models.go
package rankbydistance

import (
	"rooms-workers/internal/geo"
	"rooms-workers/internal/models"
)

type Input struct {
	ReferencePoint   geo.Point        `json:"referencePoint"`
	Listings         []models.Listing `json:"listings,omitempty"`
	ListingIDs       []string         `json:"listingIds,omitempty"`
	RadiusKm         *float64         `json:"radiusKm,omitempty"`
	WithinRadiusOnly bool             `json:"withinRadiusOnly,omitempty"`
}

type Output struct {
	RankedListings    []RankedListing `json:"rankedListings"`
	WithinRadiusCount int             `json:"withinRadiusCount"`
	UnpinnedCount     int             `json:"unpinnedCount"`
	RadiusKm          float64         `json:"radiusKm"`
}

// RankedListing carries the distance from the reference point. DistanceKm is
// null for listings without usable coordinates.
type RankedListing struct {
	Listing      models.Listing `json:"listing"`
	DistanceKm   *float64       `json:"distanceKm"`
	WithinRadius bool           `json:"withinRadius"`
}
