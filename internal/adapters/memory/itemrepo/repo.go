package itemrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/itemrepo"
)

// Repo is an in-memory implementation of itemrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ItemID]domain.ItineraryItem
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.ItemID]domain.ItineraryItem)}
}

func (r *Repo) Create(ctx context.Context, it domain.ItineraryItem) error {
	_ = ctx
	if it.ID == "" {
		return itemrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[it.ID]; ok {
		return itemrepo.ErrAlreadyExists
	}
	r.byID[it.ID] = cloneItem(it)
	return nil
}

func (r *Repo) Save(ctx context.Context, it domain.ItineraryItem) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[it.ID]
	if !ok || cur.TripID != it.TripID {
		return itemrepo.ErrNotFound
	}
	r.byID[it.ID] = cloneItem(it)
	return nil
}

func (r *Repo) Delete(ctx context.Context, tripID domain.TripID, id domain.ItemID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[id]
	if !ok || cur.TripID != tripID {
		return itemrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, tripID domain.TripID, id domain.ItemID) (domain.ItineraryItem, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.byID[id]
	if !ok || it.TripID != tripID {
		return domain.ItineraryItem{}, itemrepo.ErrNotFound
	}
	return cloneItem(it), nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.ItineraryItem, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ItineraryItem, 0)
	for _, it := range r.byID {
		if it.TripID == tripID {
			out = append(out, cloneItem(it))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return string(a.ID) < string(b.ID)
	})
	return out, nil
}

func cloneItem(it domain.ItineraryItem) domain.ItineraryItem {
	cp := it
	if it.Address != nil {
		v := *it.Address
		cp.Address = &v
	}
	cp.StartDate = cloneTimePtr(it.StartDate)
	cp.EndDate = cloneTimePtr(it.EndDate)
	if it.Latitude != nil {
		v := *it.Latitude
		cp.Latitude = &v
	}
	if it.Longitude != nil {
		v := *it.Longitude
		cp.Longitude = &v
	}
	return cp
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
