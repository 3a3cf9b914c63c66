package trips

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/clock"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/itemrepo"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/sharerepo"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/triprepo"
)

type Service struct {
	trips  triprepo.Repository
	items  itemrepo.Repository
	shares sharerepo.Repository
	clock  clock.Clock

	newTripID func() domain.TripID
	newItemID func() domain.ItemID
}

func NewService(tripsRepo triprepo.Repository, itemsRepo itemrepo.Repository, sharesRepo sharerepo.Repository, clk clock.Clock) *Service {
	return &Service{
		trips:  tripsRepo,
		items:  itemsRepo,
		shares: sharesRepo,
		clock:  clk,
		newTripID: func() domain.TripID {
			return domain.TripID(uuid.NewString())
		},
		newItemID: func() domain.ItemID {
			return domain.ItemID(uuid.NewString())
		},
	}
}

// SetNewTripIDForTest overrides trip ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewTripIDForTest(fn func() domain.TripID) {
	if fn != nil {
		s.newTripID = fn
	}
}

// SetNewItemIDForTest overrides item ID generation for deterministic tests.
func (s *Service) SetNewItemIDForTest(fn func() domain.ItemID) {
	if fn != nil {
		s.newItemID = fn
	}
}

func (s *Service) now() time.Time { return s.clock.Now().UTC() }

// AccessTo resolves the caller's access to a trip. Readers without access
// get TRIP_NOT_FOUND so trip existence is not leaked.
func (s *Service) AccessTo(ctx context.Context, caller domain.UserID, tripID domain.TripID) (TripView, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return TripView{}, errTripNotFound()
		}
		return TripView{}, err
	}
	access, err := s.accessFor(ctx, t, caller)
	if err != nil {
		return TripView{}, err
	}
	if !access.CanRead() {
		return TripView{}, errTripNotFound()
	}
	return TripView{Trip: t, Access: access}, nil
}

func (s *Service) accessFor(ctx context.Context, t domain.Trip, caller domain.UserID) (domain.Access, error) {
	if t.OwnerID == caller {
		return domain.AccessOwner, nil
	}
	sh, err := s.shares.Get(ctx, t.ID, caller)
	if err != nil {
		if errors.Is(err, sharerepo.ErrNotFound) {
			return domain.AccessNone, nil
		}
		return domain.AccessNone, err
	}
	switch sh.Permission {
	case domain.PermissionEdit:
		return domain.AccessEdit, nil
	case domain.PermissionView:
		return domain.AccessView, nil
	default:
		return domain.AccessNone, nil
	}
}

func (s *Service) writable(ctx context.Context, caller domain.UserID, tripID domain.TripID) (TripView, error) {
	v, err := s.AccessTo(ctx, caller, tripID)
	if err != nil {
		return TripView{}, err
	}
	if !v.Access.CanWrite() {
		return TripView{}, errForbidden("trip is shared read-only")
	}
	return v, nil
}

func (s *Service) owned(ctx context.Context, caller domain.UserID, tripID domain.TripID) (TripView, error) {
	v, err := s.AccessTo(ctx, caller, tripID)
	if err != nil {
		return TripView{}, err
	}
	if v.Access != domain.AccessOwner {
		return TripView{}, errForbidden("only the trip owner may do this")
	}
	return v, nil
}

func (s *Service) CreateTrip(ctx context.Context, caller domain.UserID, in CreateTripInput) (domain.Trip, error) {
	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		return domain.Trip{}, errValidation("invalid name", "name", "must be non-empty")
	}
	now := s.now()
	t := domain.Trip{
		ID:          s.newTripID(),
		OwnerID:     caller,
		Name:        name,
		Destination: strings.TrimSpace(in.Destination),
		Description: in.Description,
		StartDate:   utcPtr(in.StartDate),
		EndDate:     utcPtr(in.EndDate),
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateDates(t.StartDate, t.EndDate); err != nil {
		return domain.Trip{}, err
	}
	if err := validateCoordinates(t.Latitude, t.Longitude); err != nil {
		return domain.Trip{}, err
	}
	if err := s.trips.Create(ctx, t); err != nil {
		if errors.Is(err, triprepo.ErrAlreadyExists) {
			// Extremely unlikely (UUID collision); treat as conflict.
			return domain.Trip{}, &Error{Status: http.StatusConflict, Code: CodeTripIDConflict, Message: "trip id conflict"}
		}
		return domain.Trip{}, err
	}
	return t, nil
}

func (s *Service) GetTrip(ctx context.Context, caller domain.UserID, tripID domain.TripID) (TripView, error) {
	return s.AccessTo(ctx, caller, tripID)
}

// ListMyTrips returns the caller's own trips followed by trips shared with them.
func (s *Service) ListMyTrips(ctx context.Context, caller domain.UserID) ([]TripView, error) {
	owned, err := s.trips.ListByOwner(ctx, caller)
	if err != nil {
		return nil, err
	}
	shares, err := s.shares.ListByUser(ctx, caller)
	if err != nil {
		return nil, err
	}
	perm := make(map[domain.TripID]domain.Permission, len(shares))
	ids := make([]domain.TripID, 0, len(shares))
	for _, sh := range shares {
		perm[sh.TripID] = sh.Permission
		ids = append(ids, sh.TripID)
	}
	shared, err := s.trips.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]TripView, 0, len(owned)+len(shared))
	for _, t := range owned {
		out = append(out, TripView{Trip: t, Access: domain.AccessOwner})
	}
	for _, t := range shared {
		if t.OwnerID == caller {
			continue
		}
		access := domain.AccessView
		if perm[t.ID] == domain.PermissionEdit {
			access = domain.AccessEdit
		}
		out = append(out, TripView{Trip: t, Access: access})
	}
	return out, nil
}

func (s *Service) UpdateTrip(ctx context.Context, caller domain.UserID, tripID domain.TripID, in UpdateTripInput) (TripView, error) {
	v, err := s.writable(ctx, caller, tripID)
	if err != nil {
		return TripView{}, err
	}
	t := v.Trip

	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return TripView{}, errValidation("invalid name", "name", "cannot be null")
		}
		name := domain.NormalizeHumanName(in.Name.Value())
		if name == "" {
			return TripView{}, errValidation("invalid name", "name", "must be non-empty")
		}
		t.Name = name
	}
	if in.Destination.IsSpecified() {
		if in.Destination.IsNull() {
			return TripView{}, errValidation("invalid destination", "destination", "cannot be null")
		}
		t.Destination = strings.TrimSpace(in.Destination.Value())
	}
	in.Description.apply(&t.Description)
	in.StartDate.apply(&t.StartDate)
	in.EndDate.apply(&t.EndDate)
	t.StartDate, t.EndDate = utcPtr(t.StartDate), utcPtr(t.EndDate)

	if err := applyCoordinates(&t.Latitude, &t.Longitude, in.Latitude, in.Longitude); err != nil {
		return TripView{}, err
	}
	if err := validateDates(t.StartDate, t.EndDate); err != nil {
		return TripView{}, err
	}

	t.UpdatedAt = s.now()
	if err := s.trips.Save(ctx, t); err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return TripView{}, errTripNotFound()
		}
		return TripView{}, err
	}
	return TripView{Trip: t, Access: v.Access}, nil
}

// DeleteTrip removes a trip with its items and shares. Owner only.
func (s *Service) DeleteTrip(ctx context.Context, caller domain.UserID, tripID domain.TripID) error {
	if _, err := s.owned(ctx, caller, tripID); err != nil {
		return err
	}
	items, err := s.items.ListByTrip(ctx, tripID)
	if err != nil {
		return err
	}
	for _, it := range items {
		if err := s.items.Delete(ctx, tripID, it.ID); err != nil && !errors.Is(err, itemrepo.ErrNotFound) {
			return err
		}
	}
	shares, err := s.shares.ListByTrip(ctx, tripID)
	if err != nil {
		return err
	}
	for _, sh := range shares {
		if err := s.shares.Delete(ctx, tripID, sh.UserID); err != nil {
			return err
		}
	}
	if err := s.trips.Delete(ctx, tripID); err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return errTripNotFound()
		}
		return err
	}
	return nil
}

func (s *Service) ListItems(ctx context.Context, caller domain.UserID, tripID domain.TripID) ([]domain.ItineraryItem, error) {
	if _, err := s.AccessTo(ctx, caller, tripID); err != nil {
		return nil, err
	}
	return s.items.ListByTrip(ctx, tripID)
}

func (s *Service) AddItem(ctx context.Context, caller domain.UserID, tripID domain.TripID, in CreateItemInput) (domain.ItineraryItem, error) {
	if _, err := s.writable(ctx, caller, tripID); err != nil {
		return domain.ItineraryItem{}, err
	}
	if !in.Type.Valid() {
		return domain.ItineraryItem{}, errValidation("invalid type", "type", "must be Flight, Hotel or Activity")
	}
	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		return domain.ItineraryItem{}, errValidation("invalid name", "name", "must be non-empty")
	}

	pos := 0
	if in.Position != nil {
		pos = *in.Position
	} else {
		existing, err := s.items.ListByTrip(ctx, tripID)
		if err != nil {
			return domain.ItineraryItem{}, err
		}
		for _, it := range existing {
			if it.Position >= pos {
				pos = it.Position + 1
			}
		}
	}
	if pos < 0 {
		return domain.ItineraryItem{}, errValidation("invalid position", "position", "must be >= 0")
	}

	now := s.now()
	it := domain.ItineraryItem{
		ID:        s.newItemID(),
		TripID:    tripID,
		Type:      in.Type,
		Name:      name,
		Address:   in.Address,
		StartDate: utcPtr(in.StartDate),
		EndDate:   utcPtr(in.EndDate),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Position:  pos,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validateDates(it.StartDate, it.EndDate); err != nil {
		return domain.ItineraryItem{}, err
	}
	if err := validateCoordinates(it.Latitude, it.Longitude); err != nil {
		return domain.ItineraryItem{}, err
	}
	if err := s.items.Create(ctx, it); err != nil {
		if errors.Is(err, itemrepo.ErrAlreadyExists) {
			return domain.ItineraryItem{}, &Error{Status: http.StatusConflict, Code: CodeItemIDConflict, Message: "item id conflict"}
		}
		return domain.ItineraryItem{}, err
	}
	return it, nil
}

func (s *Service) UpdateItem(ctx context.Context, caller domain.UserID, tripID domain.TripID, itemID domain.ItemID, in UpdateItemInput) (domain.ItineraryItem, error) {
	if _, err := s.writable(ctx, caller, tripID); err != nil {
		return domain.ItineraryItem{}, err
	}
	it, err := s.items.GetByID(ctx, tripID, itemID)
	if err != nil {
		if errors.Is(err, itemrepo.ErrNotFound) {
			return domain.ItineraryItem{}, errItemNotFound()
		}
		return domain.ItineraryItem{}, err
	}

	if in.Type.IsSpecified() {
		if in.Type.IsNull() || !in.Type.Value().Valid() {
			return domain.ItineraryItem{}, errValidation("invalid type", "type", "must be Flight, Hotel or Activity")
		}
		it.Type = in.Type.Value()
	}
	if in.Name.IsSpecified() {
		name := ""
		if !in.Name.IsNull() {
			name = domain.NormalizeHumanName(in.Name.Value())
		}
		if name == "" {
			return domain.ItineraryItem{}, errValidation("invalid name", "name", "must be non-empty")
		}
		it.Name = name
	}
	if in.Position.IsSpecified() {
		if in.Position.IsNull() || in.Position.Value() < 0 {
			return domain.ItineraryItem{}, errValidation("invalid position", "position", "must be >= 0")
		}
		it.Position = in.Position.Value()
	}
	in.Address.apply(&it.Address)
	in.StartDate.apply(&it.StartDate)
	in.EndDate.apply(&it.EndDate)
	it.StartDate, it.EndDate = utcPtr(it.StartDate), utcPtr(it.EndDate)

	if err := applyCoordinates(&it.Latitude, &it.Longitude, in.Latitude, in.Longitude); err != nil {
		return domain.ItineraryItem{}, err
	}
	if err := validateDates(it.StartDate, it.EndDate); err != nil {
		return domain.ItineraryItem{}, err
	}

	it.UpdatedAt = s.now()
	if err := s.items.Save(ctx, it); err != nil {
		if errors.Is(err, itemrepo.ErrNotFound) {
			return domain.ItineraryItem{}, errItemNotFound()
		}
		return domain.ItineraryItem{}, err
	}
	return it, nil
}

func (s *Service) DeleteItem(ctx context.Context, caller domain.UserID, tripID domain.TripID, itemID domain.ItemID) error {
	if _, err := s.writable(ctx, caller, tripID); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, tripID, itemID); err != nil {
		if errors.Is(err, itemrepo.ErrNotFound) {
			return errItemNotFound()
		}
		return err
	}
	return nil
}

// ShareTrip grants target access to the trip, replacing any earlier grant. Owner only.
func (s *Service) ShareTrip(ctx context.Context, caller domain.UserID, tripID domain.TripID, target domain.UserID, perm domain.Permission) (domain.Share, error) {
	if _, err := s.owned(ctx, caller, tripID); err != nil {
		return domain.Share{}, err
	}
	if target <= 0 {
		return domain.Share{}, errValidation("invalid userId", "userId", "must be a positive integer")
	}
	if target == caller {
		return domain.Share{}, errValidation("invalid userId", "userId", "cannot share a trip with its owner")
	}
	if !perm.Valid() {
		return domain.Share{}, errValidation("invalid permission", "permission", "must be view or edit")
	}

	sh := domain.Share{TripID: tripID, UserID: target, Permission: perm, CreatedAt: s.now()}
	existing, err := s.shares.Get(ctx, tripID, target)
	switch {
	case err == nil:
		sh.CreatedAt = existing.CreatedAt
	case !errors.Is(err, sharerepo.ErrNotFound):
		return domain.Share{}, err
	}
	if err := s.shares.Upsert(ctx, sh); err != nil {
		return domain.Share{}, err
	}
	return sh, nil
}

// RevokeShare removes target's access. Revoking a missing share succeeds.
func (s *Service) RevokeShare(ctx context.Context, caller domain.UserID, tripID domain.TripID, target domain.UserID) error {
	if _, err := s.owned(ctx, caller, tripID); err != nil {
		return err
	}
	return s.shares.Delete(ctx, tripID, target)
}

func (s *Service) ListShares(ctx context.Context, caller domain.UserID, tripID domain.TripID) ([]domain.Share, error) {
	if _, err := s.owned(ctx, caller, tripID); err != nil {
		return nil, err
	}
	return s.shares.ListByTrip(ctx, tripID)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return errValidation("invalid date range", "endDate", "must be on or after startDate")
	}
	return nil
}

func validateCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return errValidation("invalid coordinates", "latitude", "latitude and longitude must be set together")
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return errValidation("invalid latitude", "latitude", "must be between -90 and 90")
	}
	if *lng < -180 || *lng > 180 {
		return errValidation("invalid longitude", "longitude", "must be between -180 and 180")
	}
	return nil
}

// applyCoordinates patches a coordinate pair; both halves must be specified
// together, either as values or as null.
func applyCoordinates(lat, lng **float64, pLat, pLng Optional[float64]) error {
	if !pLat.IsSpecified() && !pLng.IsSpecified() {
		return nil
	}
	if pLat.IsSpecified() != pLng.IsSpecified() || pLat.IsNull() != pLng.IsNull() {
		return errValidation("invalid coordinates", "latitude", "latitude and longitude must be set or cleared together")
	}
	pLat.apply(lat)
	pLng.apply(lng)
	return validateCoordinates(*lat, *lng)
}
