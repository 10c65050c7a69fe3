// internal/models/listing.go
package models

// Listing is a read-only snapshot of a marketplace listing as served by the backend.
// Latitude and Longitude are nil when the owner never pinned the room on a map.
type Listing struct {
	ID         string   `json:"id"`
	OwnerID    string   `json:"ownerId,omitempty"`
	Title      string   `json:"title,omitempty"`
	Rent       float64  `json:"rent"`
	MoveInDate string   `json:"moveInDate,omitempty"`
	RoomType   string   `json:"roomType"`
	City       string   `json:"city"`
	Locality   string   `json:"locality"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	MikoTags   VibeTags `json:"mikoTags,omitempty"`
}

// Coordinates returns the raw coordinate values and whether both are set.
// It does not apply the zero-value rule used by geo.HasCoordinates.
func (l Listing) Coordinates() (lat, lng float64, ok bool) {
	if l.Latitude == nil || l.Longitude == nil {
		return 0, 0, false
	}
	return *l.Latitude, *l.Longitude, true
}
