package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/trip-journal/internal/app/maps"
	"github.com/Overland-East-Bay/trip-journal/internal/app/trips"
	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	"github.com/Overland-East-Bay/trip-journal/internal/mapview"
)

type Me struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email,omitempty"`
}

type Trip struct {
	TripId      string              `json:"tripId"`
	OwnerUserId int64               `json:"ownerUserId"`
	Access      string              `json:"access"`
	Name        string              `json:"name"`
	Destination string              `json:"destination"`
	Description *string             `json:"description,omitempty"`
	StartDate   *openapi_types.Date `json:"startDate,omitempty"`
	EndDate     *openapi_types.Date `json:"endDate,omitempty"`
	Latitude    *float64            `json:"latitude,omitempty"`
	Longitude   *float64            `json:"longitude,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

type TripResponse struct {
	Trip Trip `json:"trip"`
}

type TripListResponse struct {
	Trips []Trip `json:"trips"`
}

type CreateTripRequest struct {
	Name        string              `json:"name"`
	Destination string              `json:"destination"`
	Description *string             `json:"description,omitempty"`
	StartDate   *openapi_types.Date `json:"startDate,omitempty"`
	EndDate     *openapi_types.Date `json:"endDate,omitempty"`
	Latitude    *float64            `json:"latitude,omitempty"`
	Longitude   *float64            `json:"longitude,omitempty"`
}

// UpdateTripRequest is a partial update: omitted fields are kept, null clears.
type UpdateTripRequest struct {
	Name        nullable.Nullable[string]             `json:"name,omitempty"`
	Destination nullable.Nullable[string]             `json:"destination,omitempty"`
	Description nullable.Nullable[string]             `json:"description,omitempty"`
	StartDate   nullable.Nullable[openapi_types.Date] `json:"startDate,omitempty"`
	EndDate     nullable.Nullable[openapi_types.Date] `json:"endDate,omitempty"`
	Latitude    nullable.Nullable[float64]            `json:"latitude,omitempty"`
	Longitude   nullable.Nullable[float64]            `json:"longitude,omitempty"`
}

type Item struct {
	ItemId    string     `json:"itemId"`
	TripId    string     `json:"tripId"`
	Type      string     `json:"type"`
	Name      string     `json:"name"`
	Address   *string    `json:"address,omitempty"`
	StartAt   *time.Time `json:"startAt,omitempty"`
	EndAt     *time.Time `json:"endAt,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	Position  int        `json:"position"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type ItemResponse struct {
	Item Item `json:"item"`
}

type ItemListResponse struct {
	Items []Item `json:"items"`
}

type CreateItemRequest struct {
	Type      string     `json:"type"`
	Name      string     `json:"name"`
	Address   *string    `json:"address,omitempty"`
	StartAt   *time.Time `json:"startAt,omitempty"`
	EndAt     *time.Time `json:"endAt,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	Position  *int       `json:"position,omitempty"`
}

type UpdateItemRequest struct {
	Type      nullable.Nullable[string]    `json:"type,omitempty"`
	Name      nullable.Nullable[string]    `json:"name,omitempty"`
	Address   nullable.Nullable[string]    `json:"address,omitempty"`
	StartAt   nullable.Nullable[time.Time] `json:"startAt,omitempty"`
	EndAt     nullable.Nullable[time.Time] `json:"endAt,omitempty"`
	Latitude  nullable.Nullable[float64]   `json:"latitude,omitempty"`
	Longitude nullable.Nullable[float64]   `json:"longitude,omitempty"`
	Position  nullable.Nullable[int]       `json:"position,omitempty"`
}

type Share struct {
	TripId     string    `json:"tripId"`
	UserId     int64     `json:"userId"`
	Permission string    `json:"permission"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ShareResponse struct {
	Share Share `json:"share"`
}

type ShareListResponse struct {
	Shares []Share `json:"shares"`
}

type PutShareRequest struct {
	Permission string `json:"permission"`
}

type MapResponse struct {
	Locations []mapview.LocationRecord `json:"locations"`
	// Viewport is null when no location has coordinates.
	Viewport *mapview.Viewport `json:"viewport"`
}

func accessName(a domain.Access) string {
	switch a {
	case domain.AccessOwner:
		return "owner"
	case domain.AccessEdit:
		return "edit"
	case domain.AccessView:
		return "view"
	default:
		return "none"
	}
}

func toDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: t.UTC()}
}

func fromDate(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}

func toTrip(v trips.TripView) Trip {
	return Trip{
		TripId:      string(v.ID),
		OwnerUserId: int64(v.OwnerID),
		Access:      accessName(v.Access),
		Name:        v.Name,
		Destination: v.Destination,
		Description: v.Description,
		StartDate:   toDate(v.StartDate),
		EndDate:     toDate(v.EndDate),
		Latitude:    v.Latitude,
		Longitude:   v.Longitude,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func toItem(it domain.ItineraryItem) Item {
	return Item{
		ItemId:    string(it.ID),
		TripId:    string(it.TripID),
		Type:      string(it.Type),
		Name:      it.Name,
		Address:   it.Address,
		StartAt:   it.StartDate,
		EndAt:     it.EndDate,
		Latitude:  it.Latitude,
		Longitude: it.Longitude,
		Position:  it.Position,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

func toShare(s domain.Share) Share {
	return Share{
		TripId:     string(s.TripID),
		UserId:     int64(s.UserID),
		Permission: string(s.Permission),
		CreatedAt:  s.CreatedAt,
	}
}

func toMap(v maps.MapView) MapResponse {
	locs := v.Locations
	if locs == nil {
		locs = []mapview.LocationRecord{}
	}
	return MapResponse{Locations: locs, Viewport: v.Viewport}
}

// optional converts a decoded nullable field into the application's tri-state.
func optional[T any](n nullable.Nullable[T]) trips.Optional[T] {
	if !n.IsSpecified() {
		return trips.Unspecified[T]()
	}
	if n.IsNull() {
		return trips.Null[T]()
	}
	v, _ := n.Get()
	return trips.Some(v)
}

func optionalDate(n nullable.Nullable[openapi_types.Date]) trips.Optional[time.Time] {
	switch {
	case !n.IsSpecified():
		return trips.Unspecified[time.Time]()
	case n.IsNull():
		return trips.Null[time.Time]()
	}
	d, _ := n.Get()
	return trips.Some(*fromDate(&d))
}
