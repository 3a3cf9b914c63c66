package itemrepo

import (
	"context"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
)

// Repository provides access to persisted itinerary items.
type Repository interface {
	Create(ctx context.Context, it domain.ItineraryItem) error
	Save(ctx context.Context, it domain.ItineraryItem) error
	Delete(ctx context.Context, tripID domain.TripID, id domain.ItemID) error

	// GetByID returns ErrNotFound when the item does not exist or belongs to another trip.
	GetByID(ctx context.Context, tripID domain.TripID, id domain.ItemID) (domain.ItineraryItem, error)

	// ListByTrip returns items ordered by Position, then CreatedAt, then ID.
	ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.ItineraryItem, error)
}
