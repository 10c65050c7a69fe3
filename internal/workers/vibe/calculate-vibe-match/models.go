// internal/workers/vibe/calculate-vibe-match/models.go
package calculatevibematch

import "rooms-workers/internal/models"

type Input struct {
	SeekerTags    []string         `json:"seekerTags"`
	Listings      []models.Listing `json:"listings,omitempty"`
	ListingIDs    []string         `json:"listingIds,omitempty"`
	MinPercent    int              `json:"minPercent,omitempty"`
	ReferenceDate string           `json:"referenceDate,omitempty"`
}

type Output struct {
	Matches    []Match `json:"matches"`
	MatchCount int     `json:"matchCount"`
	Scored     int     `json:"scored"`
}

// Match is one listing scored against the seeker's tags.
type Match struct {
	ListingID    string             `json:"listingId"`
	Listing      models.Listing     `json:"listing"`
	MatchScore   float64            `json:"matchScore"`
	MatchPercent int                `json:"matchPercent"`
	MatchedTags  []models.VibeTagID `json:"matchedTags"`
	Tags         []models.VibeTagID `json:"tags"`
}
