package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	idempotencyport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/idempotency"
	itemrepoport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/itemrepo"
	sharerepoport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/sharerepo"
	tokenstorageport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/tokenstorage"
	triprepoport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/triprepo"
)

type CleanupFunc = func()

type TripRepoFactory func(t *testing.T) (triprepoport.Repository, CleanupFunc)
type ItemRepoFactory func(t *testing.T) (itemrepoport.Repository, CleanupFunc)
type ShareRepoFactory func(t *testing.T) (sharerepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)
type TokenStorageFactory func(t *testing.T) (tokenstorageport.Storage, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + uuid.NewString()),
		UserID:   domain.UserID(7),
		Method:   "POST",
		Route:    "/trips",
		BodyHash: "",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get(missing) ok=%v err=%v", ok, err)
	}
	rec := idempotencyport.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"id":"abc"}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != `{"id":"abc"}` || got.ContentType != "application/json" || got.StatusCode != 201 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte(`{"id":"def"}`)
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != `{"id":"def"}` {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Another user never sees the record.
	other := fp
	other.UserID = 8
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get(other user) ok=%v err=%v", ok, err)
	}
}

func RunTokenStorage(t *testing.T, newStorage TokenStorageFactory) {
	t.Helper()
	ctx := context.Background()

	s, cleanup := newStorage(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}
	key := "authToken-" + uuid.NewString()

	if _, ok, err := s.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get(empty) ok=%v err=%v", ok, err)
	}
	// Removing a missing key is a no-op.
	if err := s.Remove(ctx, key); err != nil {
		t.Fatalf("Remove(empty): %v", err)
	}

	if err := s.Set(ctx, key, "a.b.c"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, err := s.Get(ctx, key); err != nil || !ok || v != "a.b.c" {
		t.Fatalf("Get=%q ok=%v err=%v", v, ok, err)
	}

	// Full-value overwrite, last write wins.
	if err := s.Set(ctx, key, "d.e.f"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if v, _, _ := s.Get(ctx, key); v != "d.e.f" {
		t.Fatalf("Get after overwrite=%q", v)
	}

	// Values round-trip byte for byte, surrounding whitespace included.
	for _, v := range []string{" tok ", "tok\n", "\t", "", "a.b.c\r\n"} {
		if err := s.Set(ctx, key, v); err != nil {
			t.Fatalf("Set(%q): %v", v, err)
		}
		if got, ok, err := s.Get(ctx, key); err != nil || !ok || got != v {
			t.Fatalf("Get after Set(%q)=%q ok=%v err=%v", v, got, ok, err)
		}
	}

	if err := s.Remove(ctx, key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, err := s.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get(after remove) ok=%v err=%v", ok, err)
	}
	if err := s.Remove(ctx, key); err != nil {
		t.Fatalf("Remove twice: %v", err)
	}
}

func ptr[T any](v T) *T { return &v }

// RunTripItemAndShareRepos exercises behaviors that require coordinated seeding
// across the trip, itinerary item and share repositories.
func RunTripItemAndShareRepos(t *testing.T, newTripRepo TripRepoFactory, newItemRepo ItemRepoFactory, newShareRepo ShareRepoFactory) {
	t.Helper()
	ctx := context.Background()

	trips, tCleanup := newTripRepo(t)
	if tCleanup != nil {
		t.Cleanup(tCleanup)
	}
	items, iCleanup := newItemRepo(t)
	if iCleanup != nil {
		t.Cleanup(iCleanup)
	}
	shares, sCleanup := newShareRepo(t)
	if sCleanup != nil {
		t.Cleanup(sCleanup)
	}

	now := time.Unix(2000, 0).UTC()
	owner := domain.UserID(time.Now().UnixNano() % 1_000_000_000)
	friend := owner + 1

	dated := domain.Trip{
		ID:          domain.TripID(uuid.NewString()),
		OwnerID:     owner,
		Name:        "Lisbon",
		Destination: "Lisbon, Portugal",
		StartDate:   ptr(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)),
		EndDate:     ptr(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)),
		Latitude:    ptr(38.72),
		Longitude:   ptr(-9.14),
		CreatedAt:   now.Add(time.Minute),
		UpdatedAt:   now.Add(time.Minute),
	}
	undated := domain.Trip{
		ID:        domain.TripID(uuid.NewString()),
		OwnerID:   owner,
		Name:      "Someday",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, tr := range []domain.Trip{undated, dated} {
		if err := trips.Create(ctx, tr); err != nil {
			t.Fatalf("Create trip %s: %v", tr.Name, err)
		}
	}
	if err := trips.Create(ctx, dated); !errors.Is(err, triprepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate err=%v, want ErrAlreadyExists", err)
	}

	got, err := trips.GetByID(ctx, dated.ID)
	if err != nil {
		t.Fatalf("GetByID trip: %v", err)
	}
	if got.Name != "Lisbon" || got.Latitude == nil || *got.Latitude != 38.72 || got.StartDate == nil || !got.StartDate.Equal(*dated.StartDate) {
		t.Fatalf("unexpected trip: %#v", got)
	}
	if _, err := trips.GetByID(ctx, domain.TripID(uuid.NewString())); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("GetByID(missing) err=%v", err)
	}

	// Dated trips sort before undated ones.
	owned, err := trips.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(owned) != 2 || owned[0].ID != dated.ID || owned[1].ID != undated.ID {
		t.Fatalf("unexpected ordering: %#v", owned)
	}

	// Save clears coordinates.
	got.Latitude, got.Longitude = nil, nil
	got.UpdatedAt = now.Add(time.Hour)
	if err := trips.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ = trips.GetByID(ctx, dated.ID)
	if got.Latitude != nil || got.Longitude != nil {
		t.Fatalf("coordinates not cleared: %#v", got)
	}

	byIDs, err := trips.ListByIDs(ctx, []domain.TripID{undated.ID, domain.TripID(uuid.NewString())})
	if err != nil {
		t.Fatalf("ListByIDs: %v", err)
	}
	if len(byIDs) != 1 || byIDs[0].ID != undated.ID {
		t.Fatalf("unexpected ListByIDs: %#v", byIDs)
	}

	// Items ordered by position.
	second := domain.ItineraryItem{
		ID:        domain.ItemID(uuid.NewString()),
		TripID:    dated.ID,
		Type:      domain.ItemTypeHotel,
		Name:      "Hotel Avenida",
		Address:   ptr("Av. da Liberdade 1"),
		Latitude:  ptr(38.71),
		Longitude: ptr(-9.14),
		Position:  2,
		CreatedAt: now,
		UpdatedAt: now,
	}
	first := domain.ItineraryItem{
		ID:        domain.ItemID(uuid.NewString()),
		TripID:    dated.ID,
		Type:      domain.ItemTypeFlight,
		Name:      "TP 1234",
		StartDate: ptr(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)),
		Position:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, it := range []domain.ItineraryItem{second, first} {
		if err := items.Create(ctx, it); err != nil {
			t.Fatalf("Create item %s: %v", it.Name, err)
		}
	}
	list, err := items.ListByTrip(ctx, dated.ID)
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("unexpected item ordering: %#v", list)
	}
	if _, err := items.GetByID(ctx, undated.ID, first.ID); !errors.Is(err, itemrepoport.ErrNotFound) {
		t.Fatalf("GetByID(wrong trip) err=%v", err)
	}
	if err := items.Delete(ctx, dated.ID, first.ID); err != nil {
		t.Fatalf("Delete item: %v", err)
	}
	if _, err := items.GetByID(ctx, dated.ID, first.ID); !errors.Is(err, itemrepoport.ErrNotFound) {
		t.Fatalf("GetByID(deleted) err=%v", err)
	}

	// Shares: last write wins.
	if _, err := shares.Get(ctx, dated.ID, friend); !errors.Is(err, sharerepoport.ErrNotFound) {
		t.Fatalf("Get(missing share) err=%v", err)
	}
	if err := shares.Upsert(ctx, domain.Share{TripID: dated.ID, UserID: friend, Permission: domain.PermissionView, CreatedAt: now}); err != nil {
		t.Fatalf("Upsert share: %v", err)
	}
	if err := shares.Upsert(ctx, domain.Share{TripID: dated.ID, UserID: friend, Permission: domain.PermissionEdit, CreatedAt: now}); err != nil {
		t.Fatalf("Upsert share overwrite: %v", err)
	}
	sh, err := shares.Get(ctx, dated.ID, friend)
	if err != nil || sh.Permission != domain.PermissionEdit {
		t.Fatalf("Get share=%+v err=%v", sh, err)
	}
	byUser, err := shares.ListByUser(ctx, friend)
	if err != nil || len(byUser) != 1 || byUser[0].TripID != dated.ID {
		t.Fatalf("ListByUser=%+v err=%v", byUser, err)
	}

	if err := shares.Delete(ctx, dated.ID, friend); err != nil {
		t.Fatalf("Delete share: %v", err)
	}
	if err := shares.Delete(ctx, dated.ID, friend); err != nil {
		t.Fatalf("Delete share twice: %v", err)
	}
	if rest, _ := shares.ListByTrip(ctx, dated.ID); len(rest) != 0 {
		t.Fatalf("share survived delete: %#v", rest)
	}

	if err := items.Delete(ctx, dated.ID, second.ID); err != nil {
		t.Fatalf("Delete item: %v", err)
	}
	if err := trips.Delete(ctx, dated.ID); err != nil {
		t.Fatalf("Delete trip: %v", err)
	}
	if _, err := trips.GetByID(ctx, dated.ID); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("GetByID(deleted) err=%v", err)
	}
	if err := trips.Delete(ctx, dated.ID); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("Delete(deleted) err=%v", err)
	}
}
