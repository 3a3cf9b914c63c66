package domain

import "time"

// Trip is the top-level journal aggregate; itinerary items and shares belong to a trip.
type Trip struct {
	ID      TripID
	OwnerID UserID

	Name        string
	Destination string
	Description *string

	StartDate *time.Time // date-only semantics at the edges
	EndDate   *time.Time // date-only semantics at the edges

	// Latitude and Longitude are set together or not at all.
	Latitude  *float64
	Longitude *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCoordinates reports whether both coordinates are present.
func (t *Trip) HasCoordinates() bool {
	return t != nil && t.Latitude != nil && t.Longitude != nil
}

type ItemType string

const (
	ItemTypeFlight   ItemType = "Flight"
	ItemTypeHotel    ItemType = "Hotel"
	ItemTypeActivity ItemType = "Activity"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeFlight, ItemTypeHotel, ItemTypeActivity:
		return true
	default:
		return false
	}
}

// ItineraryItem is a single planned flight, stay or activity within a trip.
type ItineraryItem struct {
	ID     ItemID
	TripID TripID

	Type    ItemType
	Name    string
	Address *string

	StartDate *time.Time
	EndDate   *time.Time

	Latitude  *float64
	Longitude *float64

	// Position orders items within a trip (ascending).
	Position int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (it *ItineraryItem) HasCoordinates() bool {
	return it != nil && it.Latitude != nil && it.Longitude != nil
}
