package triprepo

import (
	"context"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
)

// Repository provides access to persisted trips.
//
// Result ordering expectations:
// - List methods return trips by startDate ascending (undated last), then createdAt, then ID.
type Repository interface {
	Create(ctx context.Context, t domain.Trip) error
	Save(ctx context.Context, t domain.Trip) error
	// Delete removes the trip. Callers remove its items and shares first.
	// Deleting a missing trip returns ErrNotFound.
	Delete(ctx context.Context, id domain.TripID) error

	GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error)

	ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.Trip, error)
	// ListByIDs returns the trips that exist among ids; unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []domain.TripID) ([]domain.Trip, error)
}
