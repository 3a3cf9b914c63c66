package trips

import (
	"time"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// apply writes o into dst: null clears, a value replaces, unspecified keeps.
func (o Optional[T]) apply(dst **T) {
	if !o.specified {
		return
	}
	if o.isNull {
		*dst = nil
		return
	}
	v := o.value
	*dst = &v
}

// TripView is a trip together with the caller's access to it.
type TripView struct {
	domain.Trip
	Access domain.Access
}

type CreateTripInput struct {
	Name        string
	Destination string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Latitude    *float64
	Longitude   *float64
}

type UpdateTripInput struct {
	// Name and Destination cannot be null.
	Name        Optional[string]
	Destination Optional[string]

	Description Optional[string]
	StartDate   Optional[time.Time]
	EndDate     Optional[time.Time]

	// Latitude and Longitude must be specified together.
	Latitude  Optional[float64]
	Longitude Optional[float64]
}

type CreateItemInput struct {
	Type      domain.ItemType
	Name      string
	Address   *string
	StartDate *time.Time
	EndDate   *time.Time
	Latitude  *float64
	Longitude *float64
	// Position defaults to the end of the itinerary.
	Position *int
}

type UpdateItemInput struct {
	Type     Optional[domain.ItemType]
	Name     Optional[string]
	Address  Optional[string]
	Position Optional[int]

	StartDate Optional[time.Time]
	EndDate   Optional[time.Time]

	Latitude  Optional[float64]
	Longitude Optional[float64]
}
