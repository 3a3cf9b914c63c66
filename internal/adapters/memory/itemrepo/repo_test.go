package itemrepo

import (
	"context"
	"testing"
	"time"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/itemrepo"
)

func TestRepo_ListByTrip_OrdersByPositionThenCreatedAt(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()

	_ = r.Create(ctx, domain.ItineraryItem{ID: "i3", TripID: "t1", Position: 2, CreatedAt: time.Unix(10, 0)})
	_ = r.Create(ctx, domain.ItineraryItem{ID: "i2", TripID: "t1", Position: 1, CreatedAt: time.Unix(20, 0)})
	_ = r.Create(ctx, domain.ItineraryItem{ID: "i1", TripID: "t1", Position: 1, CreatedAt: time.Unix(10, 0)})
	_ = r.Create(ctx, domain.ItineraryItem{ID: "x", TripID: "t2", Position: 0})

	got, err := r.ListByTrip(ctx, "t1")
	if err != nil {
		t.Fatalf("ListByTrip() err=%v", err)
	}
	if len(got) != 3 || got[0].ID != "i1" || got[1].ID != "i2" || got[2].ID != "i3" {
		t.Fatalf("order=%v, want [i1 i2 i3]", got)
	}
}

func TestRepo_ScopedToTrip(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()
	_ = r.Create(ctx, domain.ItineraryItem{ID: "i1", TripID: "t1"})

	if _, err := r.GetByID(ctx, "t2", "i1"); err != itemrepo.ErrNotFound {
		t.Fatalf("GetByID(other trip) err=%v, want %v", err, itemrepo.ErrNotFound)
	}
	if err := r.Save(ctx, domain.ItineraryItem{ID: "i1", TripID: "t2"}); err != itemrepo.ErrNotFound {
		t.Fatalf("Save(other trip) err=%v, want %v", err, itemrepo.ErrNotFound)
	}
	if err := r.Delete(ctx, "t2", "i1"); err != itemrepo.ErrNotFound {
		t.Fatalf("Delete(other trip) err=%v, want %v", err, itemrepo.ErrNotFound)
	}
}
