package mapview_test

import (
	"encoding/json"
	"testing"

	"github.com/Overland-East-Bay/trip-journal/internal/mapview"
)

func loc(lat, lng float64) mapview.LocationRecord {
	return mapview.LocationRecord{Latitude: lat, Longitude: lng}
}

func TestFit_Empty(t *testing.T) {
	t.Parallel()

	if _, ok := mapview.Fit(nil); ok {
		t.Fatalf("Fit(nil) ok=true")
	}
	if _, ok := mapview.Fit([]mapview.LocationRecord{}); ok {
		t.Fatalf("Fit(empty) ok=true")
	}
}

func TestFit_Single(t *testing.T) {
	t.Parallel()

	vp, ok := mapview.Fit([]mapview.LocationRecord{loc(38.72, -9.14)})
	if !ok {
		t.Fatalf("ok=false")
	}
	want := mapview.Viewport{Mode: mapview.ModeCenter, Latitude: 38.72, Longitude: -9.14, Zoom: 12}
	if vp != want {
		t.Fatalf("vp=%+v want %+v", vp, want)
	}
}

func TestFit_Bounds(t *testing.T) {
	t.Parallel()

	vp, ok := mapview.Fit([]mapview.LocationRecord{loc(10, 20), loc(-5, 30), loc(3, -40)})
	if !ok {
		t.Fatalf("ok=false")
	}
	want := mapview.Viewport{
		Mode:         mapview.ModeBounds,
		SouthWestLat: -5, SouthWestLng: -40,
		NorthEastLat: 10, NorthEastLng: 30,
		PaddingPx: 40, MaxZoom: 15,
	}
	if vp != want {
		t.Fatalf("vp=%+v want %+v", vp, want)
	}
	if vp.Degenerate() {
		t.Fatalf("non-degenerate box reported degenerate")
	}
	if vp.Normalize() != vp {
		t.Fatalf("Normalize changed a proper box")
	}
}

func TestFit_BoundsContainEveryPoint(t *testing.T) {
	t.Parallel()

	locs := []mapview.LocationRecord{loc(1.5, 2.5), loc(-89, 179), loc(45, -179.9), loc(0, 0)}
	vp, _ := mapview.Fit(locs)
	for _, l := range locs {
		if l.Latitude < vp.SouthWestLat || l.Latitude > vp.NorthEastLat ||
			l.Longitude < vp.SouthWestLng || l.Longitude > vp.NorthEastLng {
			t.Fatalf("%+v outside %+v", l, vp)
		}
	}
}

func TestFit_IdenticalPointsNormalizeToCenter(t *testing.T) {
	t.Parallel()

	vp, ok := mapview.Fit([]mapview.LocationRecord{loc(7, 8), loc(7, 8)})
	if !ok || vp.Mode != mapview.ModeBounds {
		t.Fatalf("vp=%+v ok=%v", vp, ok)
	}
	if !vp.Degenerate() {
		t.Fatalf("zero-area box not degenerate")
	}
	want := mapview.Viewport{Mode: mapview.ModeCenter, Latitude: 7, Longitude: 8, Zoom: 12}
	if got := vp.Normalize(); got != want {
		t.Fatalf("Normalize()=%+v want %+v", got, want)
	}
}

func TestFit_StraightLineKeepsBounds(t *testing.T) {
	t.Parallel()

	cases := map[string][]mapview.LocationRecord{
		"same latitude":  {loc(0, 0), loc(0, 100)},
		"same longitude": {loc(-30, 12), loc(45, 12)},
	}
	for name, locs := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			vp, ok := mapview.Fit(locs)
			if !ok || vp.Mode != mapview.ModeBounds {
				t.Fatalf("vp=%+v ok=%v", vp, ok)
			}
			if vp.Degenerate() {
				t.Fatalf("line of distinct points reported degenerate: %+v", vp)
			}
			if got := vp.Normalize(); got != vp {
				t.Fatalf("Normalize()=%+v want unchanged %+v", got, vp)
			}
		})
	}
}

func TestViewport_JSONOmitsOtherMode(t *testing.T) {
	t.Parallel()

	vp, _ := mapview.Fit([]mapview.LocationRecord{loc(0, 2)})
	b, err := json.Marshal(vp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := m["paddingPx"]; ok {
		t.Fatalf("center viewport carries bounds fields: %s", b)
	}
	if m["mode"] != "center" || m["zoom"] != float64(12) || m["latitude"] != float64(0) {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestViewport_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	vp, _ := mapview.Fit([]mapview.LocationRecord{loc(0, 0), loc(1, 1)})
	b, err := json.Marshal(vp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back mapview.Viewport
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != vp {
		t.Fatalf("round trip %+v != %+v", back, vp)
	}
}
