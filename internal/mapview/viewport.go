package mapview

import (
	"encoding/json"
	"math"
)

type Mode string

const (
	ModeCenter Mode = "center"
	ModeBounds Mode = "bounds"
)

const (
	SingleLocationZoom = 12
	BoundsPaddingPx    = 40
	BoundsMaxZoom      = 15
)

// Viewport is a camera instruction: either a center point with a zoom level
// or a bounding box with padding and a zoom ceiling.
type Viewport struct {
	Mode Mode `json:"mode"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`

	SouthWestLat float64 `json:"southWestLat"`
	SouthWestLng float64 `json:"southWestLng"`
	NorthEastLat float64 `json:"northEastLat"`
	NorthEastLng float64 `json:"northEastLng"`
	PaddingPx    int     `json:"paddingPx"`
	MaxZoom      int     `json:"maxZoom"`
}

// Fit picks the viewport for locs. It reports false when there is nothing to show.
func Fit(locs []LocationRecord) (Viewport, bool) {
	switch len(locs) {
	case 0:
		return Viewport{}, false
	case 1:
		return centerOn(locs[0].Latitude, locs[0].Longitude), true
	}

	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLng, maxLng := math.Inf(1), math.Inf(-1)
	for _, l := range locs {
		minLat = math.Min(minLat, l.Latitude)
		maxLat = math.Max(maxLat, l.Latitude)
		minLng = math.Min(minLng, l.Longitude)
		maxLng = math.Max(maxLng, l.Longitude)
	}
	return Viewport{
		Mode:         ModeBounds,
		SouthWestLat: minLat,
		SouthWestLng: minLng,
		NorthEastLat: maxLat,
		NorthEastLng: maxLng,
		PaddingPx:    BoundsPaddingPx,
		MaxZoom:      BoundsMaxZoom,
	}, true
}

// Degenerate reports a bounds viewport collapsed to a single point. A box
// that is flat on only one axis still spans distinct points and stays bounds.
func (v Viewport) Degenerate() bool {
	return v.Mode == ModeBounds &&
		v.SouthWestLat == v.NorthEastLat && v.SouthWestLng == v.NorthEastLng
}

// Normalize rewrites a degenerate bounds viewport into a center viewport on
// the middle of the box. Any other viewport is returned unchanged.
func (v Viewport) Normalize() Viewport {
	if !v.Degenerate() {
		return v
	}
	return centerOn((v.SouthWestLat+v.NorthEastLat)/2, (v.SouthWestLng+v.NorthEastLng)/2)
}

func centerOn(lat, lng float64) Viewport {
	return Viewport{
		Mode:      ModeCenter,
		Latitude:  lat,
		Longitude: lng,
		Zoom:      SingleLocationZoom,
	}
}

// MarshalJSON writes only the fields of the viewport's mode, so a center on
// the equator keeps its zero latitude.
func (v Viewport) MarshalJSON() ([]byte, error) {
	switch v.Mode {
	case ModeCenter:
		return json.Marshal(struct {
			Mode      Mode    `json:"mode"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Zoom      int     `json:"zoom"`
		}{v.Mode, v.Latitude, v.Longitude, v.Zoom})
	case ModeBounds:
		return json.Marshal(struct {
			Mode         Mode    `json:"mode"`
			SouthWestLat float64 `json:"southWestLat"`
			SouthWestLng float64 `json:"southWestLng"`
			NorthEastLat float64 `json:"northEastLat"`
			NorthEastLng float64 `json:"northEastLng"`
			PaddingPx    int     `json:"paddingPx"`
			MaxZoom      int     `json:"maxZoom"`
		}{v.Mode, v.SouthWestLat, v.SouthWestLng, v.NorthEastLat, v.NorthEastLng, v.PaddingPx, v.MaxZoom})
	default:
		return json.Marshal(struct {
			Mode Mode `json:"mode"`
		}{v.Mode})
	}
}
