// internal/workers/requests/summarize-requests/models.go
package summarizerequests

import "rooms-workers/internal/models"

// Tabs of the requests screen.
const (
	TabReceived = "received"
	TabSent     = "sent"
)

type Input struct {
	UserID     string           `json:"userId"`
	ListingIDs []string         `json:"listingIds,omitempty"`
	Requests   []models.Request `json:"requests"`
	InitialTab string           `json:"initialTab,omitempty"`
}

type Output struct {
	Received       []models.Request     `json:"received"`
	Sent           []models.Request     `json:"sent"`
	ReceivedCounts models.RequestCounts `json:"receivedCounts"`
	SentCounts     models.RequestCounts `json:"sentCounts"`
	HasListings    bool                 `json:"hasListings"`
	DefaultTab     string               `json:"defaultTab"`
}
