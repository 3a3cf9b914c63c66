package sharerepo

import (
	"context"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
)

type Repository interface {
	// Get returns the share for (trip, user). If it does not exist, ErrNotFound is returned.
	Get(ctx context.Context, tripID domain.TripID, userID domain.UserID) (domain.Share, error)

	// Upsert writes the share for (trip, user) using last-write-wins semantics.
	Upsert(ctx context.Context, s domain.Share) error

	// Delete removes the share; deleting a missing share is not an error.
	Delete(ctx context.Context, tripID domain.TripID, userID domain.UserID) error

	// ListByTrip returns all shares of a trip ordered by user id.
	ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Share, error)

	// ListByUser returns every share granted to a user ordered by trip id.
	ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Share, error)
}
