// Package maps builds the map view of a trip or of a user's whole dashboard.
package maps

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Overland-East-Bay/trip-journal/internal/app/trips"
	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	"github.com/Overland-East-Bay/trip-journal/internal/mapview"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/itemrepo"
)

// TripReader resolves the trips a caller may see.
type TripReader interface {
	GetTrip(ctx context.Context, caller domain.UserID, id domain.TripID) (trips.TripView, error)
	ListMyTrips(ctx context.Context, caller domain.UserID) ([]trips.TripView, error)
}

// MapView is the markers of one view plus the camera that frames them.
// Viewport is nil when there is nothing to show.
type MapView struct {
	Locations []mapview.LocationRecord
	Viewport  *mapview.Viewport
}

type Service struct {
	trips TripReader
	items itemrepo.Repository

	// Aggregated markers keyed by the identity and version of every input
	// entity, plus one "scope:" entry per view naming its current key.
	cache *cache.Cache
}

// DefaultMemoTTL applies when NewService is given a non-positive ttl.
const DefaultMemoTTL = 10 * time.Minute

// NewService memoizes aggregations for ttl. Any edit changes a view's key and
// the superseded entry is dropped on the next read of that view.
func NewService(tripReader TripReader, items itemrepo.Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultMemoTTL
	}
	cleanup := 2 * ttl
	return &Service{
		trips: tripReader,
		items: items,
		cache: cache.New(ttl, cleanup),
	}
}

func (s *Service) TripMap(ctx context.Context, caller domain.UserID, tripID domain.TripID) (MapView, error) {
	v, err := s.trips.GetTrip(ctx, caller, tripID)
	if err != nil {
		return MapView{}, err
	}
	items, err := s.items.ListByTrip(ctx, tripID)
	if err != nil {
		return MapView{}, err
	}

	var key strings.Builder
	key.WriteString("trip:")
	writeVersion(&key, string(v.ID), v.UpdatedAt)
	for _, it := range items {
		key.WriteByte('|')
		writeVersion(&key, string(it.ID), it.UpdatedAt)
	}

	trip := v.Trip
	locs := s.aggregate("trip:"+string(v.ID), key.String(), mapview.Input{Trip: &trip, Items: mapview.ItemsOf(items)})
	return newMapView(locs), nil
}

// DashboardMap places every trip the caller owns or was shared.
func (s *Service) DashboardMap(ctx context.Context, caller domain.UserID) (MapView, error) {
	views, err := s.trips.ListMyTrips(ctx, caller)
	if err != nil {
		return MapView{}, err
	}
	list := make([]domain.Trip, 0, len(views))

	var key strings.Builder
	key.WriteString("dashboard:")
	key.WriteString(caller.String())
	for _, v := range views {
		key.WriteByte('|')
		writeVersion(&key, string(v.ID), v.UpdatedAt)
		list = append(list, v.Trip)
	}

	locs := s.aggregate("dashboard:"+caller.String(), key.String(), mapview.Input{Items: mapview.TripsOf(list)})
	return newMapView(locs), nil
}

func (s *Service) aggregate(scope, key string, in mapview.Input) []mapview.LocationRecord {
	if cached, found := s.cache.Get(key); found {
		return append([]mapview.LocationRecord(nil), cached.([]mapview.LocationRecord)...)
	}
	locs := mapview.Aggregate(in)
	scopeKey := "scope:" + scope
	if prev, found := s.cache.Get(scopeKey); found && prev.(string) != key {
		s.cache.Delete(prev.(string))
	}
	s.cache.Set(key, locs, cache.DefaultExpiration)
	s.cache.Set(scopeKey, key, cache.DefaultExpiration)
	return append([]mapview.LocationRecord(nil), locs...)
}

func writeVersion(b *strings.Builder, id string, updated time.Time) {
	b.WriteString(id)
	b.WriteByte('@')
	b.WriteString(strconv.FormatInt(updated.UnixNano(), 10))
}

func newMapView(locs []mapview.LocationRecord) MapView {
	mv := MapView{Locations: locs}
	if vp, ok := mapview.Fit(locs); ok {
		vp = vp.Normalize()
		mv.Viewport = &vp
	}
	return mv
}
