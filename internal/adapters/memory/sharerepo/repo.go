package sharerepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/sharerepo"
)

type key struct {
	tripID domain.TripID
	userID domain.UserID
}

// Repo is an in-memory implementation of sharerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex
	m  map[key]domain.Share
}

func NewRepo() *Repo {
	return &Repo{m: make(map[key]domain.Share)}
}

func (r *Repo) Get(ctx context.Context, tripID domain.TripID, userID domain.UserID) (domain.Share, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.m[key{tripID: tripID, userID: userID}]
	if !ok {
		return domain.Share{}, sharerepo.ErrNotFound
	}
	return v, nil
}

func (r *Repo) Upsert(ctx context.Context, s domain.Share) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[key{tripID: s.TripID, userID: s.UserID}] = s
	return nil
}

func (r *Repo) Delete(ctx context.Context, tripID domain.TripID, userID domain.UserID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, key{tripID: tripID, userID: userID})
	return nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Share, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Share, 0)
	for k, v := range r.m {
		if k.tripID == tripID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Share, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Share, 0)
	for k, v := range r.m {
		if k.userID == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TripID < out[j].TripID })
	return out, nil
}
