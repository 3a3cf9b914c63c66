// Package mapview turns trips and itinerary items into map markers and picks
// a camera viewport that shows all of them.
package mapview

import "github.com/Overland-East-Bay/trip-journal/internal/domain"

type Category string

const (
	CategoryTrip     Category = "trip"
	CategoryFlight   Category = Category(domain.ItemTypeFlight)
	CategoryHotel    Category = Category(domain.ItemTypeHotel)
	CategoryActivity Category = Category(domain.ItemTypeActivity)
)

// LocationRecord is one renderable marker.
//
// Source points at the entity the record was built from. It is never mutated
// through the record and is not serialized.
type LocationRecord struct {
	ID          string   `json:"id"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Source      Entity   `json:"-"`
}

// sameMarker compares everything a renderer can see, ignoring Source.
func sameMarker(a, b LocationRecord) bool {
	return a.ID == b.ID &&
		a.Latitude == b.Latitude &&
		a.Longitude == b.Longitude &&
		a.Title == b.Title &&
		a.Description == b.Description &&
		a.Category == b.Category
}

func sameMarkers(a, b []LocationRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameMarker(a[i], b[i]) {
			return false
		}
	}
	return true
}
