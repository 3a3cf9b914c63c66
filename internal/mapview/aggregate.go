package mapview

import "github.com/Overland-East-Bay/trip-journal/internal/domain"

// Input is the set of entities one map view renders.
// Trip is the focal trip of a trip view and is nil for the dashboard.
type Input struct {
	Trip  *domain.Trip
	Items []Entity
}

// Aggregate returns one record per entity with both coordinates set, in
// input order with the focal trip first.
func Aggregate(in Input) []LocationRecord {
	out := make([]LocationRecord, 0, len(in.Items)+1)
	if in.Trip != nil {
		if rec, ok := (TripEntity{Trip: in.Trip}).locate(roleFocal); ok {
			out = append(out, rec)
		}
	}
	for _, e := range in.Items {
		if e == nil {
			continue
		}
		if rec, ok := e.locate(roleListed); ok {
			out = append(out, rec)
		}
	}
	return out
}

// ItemsOf wraps itinerary items as entities, preserving order.
func ItemsOf(items []domain.ItineraryItem) []Entity {
	out := make([]Entity, 0, len(items))
	for i := range items {
		out = append(out, ItemEntity{Item: &items[i]})
	}
	return out
}

// TripsOf wraps trips as entities, preserving order.
func TripsOf(trips []domain.Trip) []Entity {
	out := make([]Entity, 0, len(trips))
	for i := range trips {
		out = append(out, TripEntity{Trip: &trips[i]})
	}
	return out
}
