package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/idempotency"
)

// Store is an in-memory implementation of idempotency.Store.
// Records older than the retention window are dropped lazily on Put.
// It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	m         map[idempotency.Fingerprint]idempotency.Record
	retention time.Duration
}

// NewStore keeps records forever.
func NewStore() *Store {
	return NewStoreWithRetention(0)
}

func NewStoreWithRetention(retention time.Duration) *Store {
	return &Store{
		m:         make(map[idempotency.Fingerprint]idempotency.Record),
		retention: retention,
	}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.m[fp]
	return rec, ok, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	_ = ctx
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retention > 0 {
		cutoff := rec.CreatedAt.Add(-s.retention)
		for k, v := range s.m {
			if v.CreatedAt.Before(cutoff) {
				delete(s.m, k)
			}
		}
	}
	s.m[fp] = rec
	return nil
}
