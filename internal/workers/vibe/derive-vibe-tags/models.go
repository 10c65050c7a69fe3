// internal/workers/vibe/derive-vibe-tags/models.go
package derivevibetags

import "rooms-workers/internal/models"

type Input struct {
	ListingID     string          `json:"listingId,omitempty"`
	Listing       *models.Listing `json:"listing,omitempty"`
	MaxLabels     *int            `json:"maxLabels,omitempty"`
	ReferenceDate string          `json:"referenceDate,omitempty"`
}

type Output struct {
	ListingID string             `json:"listingId"`
	Tags      []models.VibeTagID `json:"tags"`
	Labels    []string           `json:"labels"`
	TagCount  int                `json:"tagCount"`
}
