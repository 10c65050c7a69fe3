package miko

// wellConnectedAreas lists, per city, the localities with good transit and
// office access. Keys and values are matched case-sensitively.
var wellConnectedAreas = map[string][]string{
	"Pune":      {"Baner", "Hinjawadi", "Kharadi", "Viman Nagar", "Wakad", "Koregaon Park"},
	"Mumbai":    {"Andheri", "Bandra", "Powai", "Lower Parel", "Goregaon", "Thane"},
	"Hyderabad": {"Hitech City", "Gachibowli", "Kondapur", "Jubilee Hills", "Madhapur"},
	"Bangalore": {"Whitefield", "Koramangala", "Indiranagar", "HSR Layout", "Bellandur"},
}

// IsWellConnected reports whether locality is a well-connected area of city.
// Unknown cities have no well-connected localities.
func IsWellConnected(city, locality string) bool {
	for _, area := range wellConnectedAreas[city] {
		if area == locality {
			return true
		}
	}
	return false
}
