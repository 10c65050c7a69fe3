// internal/models/request.go
package models

// RequestStatus is the lifecycle state of a seeker's request for a listing.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Request is a seeker's request to move into a listing. RequestedAt is
// passed through as the backend sent it.
type Request struct {
	ID          string        `json:"id"`
	ListingID   string        `json:"listingId"`
	SeekerID    string        `json:"seekerId"`
	Status      RequestStatus `json:"status"`
	Message     string        `json:"message,omitempty"`
	RequestedAt string        `json:"requestedAt,omitempty"`
}

// RequestCounts aggregates requests by status.
type RequestCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}
