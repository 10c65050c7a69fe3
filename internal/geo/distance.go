// Package geo measures great-circle distances and orders listings by how far
// they are from a reference point.
package geo

import (
	"math"
	"sort"

	"rooms-workers/internal/models"
)

const (
	// EarthRadiusKm is the mean Earth radius used by HaversineDistanceKm.
	EarthRadiusKm = 6371.0

	// DefaultRadiusKm is the search radius used when callers do not pick one.
	DefaultRadiusKm = 10.0
)

// Point is a reference location in degrees, such as a seeker's chosen area.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HaversineDistanceKm returns the great-circle distance in kilometres between
// two points given in degrees.
func HaversineDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// HasCoordinates reports whether a listing can be placed on the map.
//
// A coordinate equal to exactly 0 counts as missing, so a listing on the
// equator or the prime meridian is treated as unpinned. Product has not
// confirmed whether 0 is meant as an "unset" sentinel; keep this until it does.
func HasCoordinates(listing models.Listing) bool {
	lat, lng, ok := listing.Coordinates()
	return ok && lat != 0 && lng != 0
}

// DistanceFrom returns the distance from the reference point to the listing,
// and false when the listing has no usable coordinates.
func DistanceFrom(listing models.Listing, refLat, refLng float64) (float64, bool) {
	if !HasCoordinates(listing) {
		return 0, false
	}
	return HaversineDistanceKm(refLat, refLng, *listing.Latitude, *listing.Longitude), true
}

// SortByDistance returns a new slice with pinned listings first, nearest
// first, followed by unpinned listings. The input is not modified. Callers
// must not rely on the relative order of unpinned listings.
func SortByDistance(listings []models.Listing, refLat, refLng float64) []models.Listing {
	type entry struct {
		listing  models.Listing
		distance float64
		pinned   bool
	}

	entries := make([]entry, len(listings))
	for i, l := range listings {
		d, pinned := DistanceFrom(l, refLat, refLng)
		entries[i] = entry{listing: l, distance: d, pinned: pinned}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.pinned && b.pinned:
			return a.distance < b.distance
		case a.pinned != b.pinned:
			return a.pinned
		default:
			return false
		}
	})

	sorted := make([]models.Listing, len(entries))
	for i, e := range entries {
		sorted[i] = e.listing
	}
	return sorted
}

// IsWithinRadius reports whether the listing lies within radiusKm of the
// reference point, boundary included. Unpinned listings are never within.
func IsWithinRadius(listing models.Listing, refLat, refLng, radiusKm float64) bool {
	d, ok := DistanceFrom(listing, refLat, refLng)
	if !ok {
		return false
	}
	return d <= radiusKm
}
