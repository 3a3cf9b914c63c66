package mapview_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	"github.com/Overland-East-Bay/trip-journal/internal/mapview"
)

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAggregate_TripAndItems(t *testing.T) {
	t.Parallel()

	trip := &domain.Trip{
		ID:          "t1",
		Name:        "Portugal",
		Destination: "Lisbon",
		StartDate:   date(2025, time.March, 3),
		EndDate:     date(2025, time.March, 9),
		Latitude:    ptr(38.72),
		Longitude:   ptr(-9.14),
	}
	items := []domain.ItineraryItem{
		{ID: "i1", Type: domain.ItemTypeFlight, Name: "TP 123", StartDate: date(2025, time.March, 3), Latitude: ptr(38.77), Longitude: ptr(-9.13)},
		{ID: "i2", Type: domain.ItemTypeHotel, Name: "", Address: ptr("Rua Augusta 1"), Latitude: ptr(38.71), Longitude: ptr(-9.13)},
		{ID: "i3", Type: domain.ItemTypeActivity, Name: "Tram 28", Latitude: ptr(38.71)},
		{ID: "i4", Type: domain.ItemTypeActivity, Name: "Walk", Latitude: ptr(38.70), Longitude: ptr(-9.15)},
	}

	got := mapview.Aggregate(mapview.Input{Trip: trip, Items: mapview.ItemsOf(items)})

	type marker struct {
		ID, Title, Description string
		Category               mapview.Category
	}
	want := []marker{
		{"trip-t1", "Portugal", "Lisbon (Mar 3, 2025 - Mar 9, 2025)", mapview.CategoryTrip},
		{"Flight-i1", "TP 123", "Flight - Mar 3, 2025", mapview.CategoryFlight},
		{"Hotel-i2", "Itinerary Item", "Rua Augusta 1", mapview.CategoryHotel},
		{"Activity-i4", "Walk", "Activity", mapview.CategoryActivity},
	}
	if len(got) != len(want) {
		t.Fatalf("len=%d want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		g := marker{got[i].ID, got[i].Title, got[i].Description, got[i].Category}
		if g != w {
			t.Fatalf("record %d = %+v, want %+v", i, g, w)
		}
	}
	if got[0].Latitude != 38.72 || got[0].Longitude != -9.14 {
		t.Fatalf("trip coordinates = %v,%v", got[0].Latitude, got[0].Longitude)
	}
	src, ok := got[1].Source.(mapview.ItemEntity)
	if !ok || src.Item != &items[0] {
		t.Fatalf("Source does not point at the input item: %#v", got[1].Source)
	}
}

func TestAggregate_TripDescriptions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		trip domain.Trip
		want string
	}{
		{"destination only", domain.Trip{Destination: "Lisbon"}, "Lisbon"},
		{"dates only", domain.Trip{StartDate: date(2025, 3, 3), EndDate: date(2025, 3, 9)}, "Mar 3, 2025 - Mar 9, 2025"},
		{"start only", domain.Trip{Destination: "Lisbon", StartDate: date(2025, 3, 3)}, "Lisbon (Mar 3, 2025)"},
		{"end only", domain.Trip{EndDate: date(2025, 12, 25)}, "Dec 25, 2025"},
		{"nothing", domain.Trip{}, ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tc.trip.ID = "t"
			tc.trip.Latitude, tc.trip.Longitude = ptr(1.0), ptr(2.0)
			got := mapview.Aggregate(mapview.Input{Trip: &tc.trip})
			if len(got) != 1 || got[0].Description != tc.want {
				t.Fatalf("got %+v, want description %q", got, tc.want)
			}
		})
	}
}

func TestAggregate_TitleFallbacksByRole(t *testing.T) {
	t.Parallel()

	focal := &domain.Trip{ID: "a", Name: "  ", Latitude: ptr(1.0), Longitude: ptr(1.0)}
	listed := []domain.Trip{{ID: "b", Latitude: ptr(2.0), Longitude: ptr(2.0)}}

	got := mapview.Aggregate(mapview.Input{Trip: focal, Items: mapview.TripsOf(listed)})
	if len(got) != 2 {
		t.Fatalf("len=%d", len(got))
	}
	if got[0].Title != "Trip Destination" {
		t.Fatalf("focal title=%q", got[0].Title)
	}
	if got[1].Title != "Untitled Trip" || got[1].ID != "trip-b" {
		t.Fatalf("listed record=%+v", got[1])
	}
}

func TestAggregate_SkipsMissingCoordinates(t *testing.T) {
	t.Parallel()

	trip := &domain.Trip{ID: "t", Name: "No coords", Longitude: ptr(3.0)}
	got := mapview.Aggregate(mapview.Input{Trip: trip, Items: []mapview.Entity{
		mapview.ItemEntity{Item: &domain.ItineraryItem{ID: "x", Type: domain.ItemTypeHotel}},
		mapview.ItemEntity{},
		mapview.TripEntity{},
		nil,
	}})
	if len(got) != 0 {
		t.Fatalf("expected no records, got %+v", got)
	}
}

func TestAggregate_DeterministicAndNonMutating(t *testing.T) {
	t.Parallel()

	build := func() mapview.Input {
		return mapview.Input{
			Trip: &domain.Trip{ID: "t", Name: "T", Latitude: ptr(1.0), Longitude: ptr(2.0)},
			Items: mapview.ItemsOf([]domain.ItineraryItem{
				{ID: "i", Type: domain.ItemTypeHotel, Latitude: ptr(3.0), Longitude: ptr(4.0)},
			}),
		}
	}
	in := build()
	before := build()

	a := mapview.Aggregate(in)
	b := mapview.Aggregate(build())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("equal inputs gave different outputs:\n%+v\n%+v", a, b)
	}
	if !reflect.DeepEqual(in, before) {
		t.Fatalf("input mutated")
	}
}

func TestAggregate_DateFormatIsUTC(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-8", -8*3600)
	start := time.Date(2025, 3, 2, 20, 0, 0, 0, loc) // Mar 3 04:00 UTC
	item := domain.ItineraryItem{ID: "i", Type: domain.ItemTypeFlight, StartDate: &start, Latitude: ptr(0.0), Longitude: ptr(0.0)}

	got := mapview.Aggregate(mapview.Input{Items: mapview.ItemsOf([]domain.ItineraryItem{item})})
	if len(got) != 1 || got[0].Description != "Flight - Mar 3, 2025" {
		t.Fatalf("got %+v", got)
	}
}
