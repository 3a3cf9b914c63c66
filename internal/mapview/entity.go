package mapview

import (
	"fmt"
	"strings"
	"time"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
)

const dateLayout = "Jan 2, 2006"

const (
	fallbackFocalTripTitle = "Trip Destination"
	fallbackListTripTitle  = "Untitled Trip"
	fallbackItemTitle      = "Itinerary Item"
)

// role tells an entity whether it is the focal trip of a view or one entry of a list.
type role int

const (
	roleFocal role = iota
	roleListed
)

// Entity is anything that can be placed on the map.
// The only implementations are TripEntity and ItemEntity.
type Entity interface {
	locate(r role) (LocationRecord, bool)
}

type TripEntity struct {
	Trip *domain.Trip
}

type ItemEntity struct {
	Item *domain.ItineraryItem
}

func (e TripEntity) locate(r role) (LocationRecord, bool) {
	t := e.Trip
	if t == nil || !t.HasCoordinates() {
		return LocationRecord{}, false
	}
	title := t.Name
	if strings.TrimSpace(title) == "" {
		title = fallbackFocalTripTitle
		if r == roleListed {
			title = fallbackListTripTitle
		}
	}
	return LocationRecord{
		ID:          fmt.Sprintf("%s-%s", CategoryTrip, t.ID),
		Latitude:    *t.Latitude,
		Longitude:   *t.Longitude,
		Title:       title,
		Description: tripDescription(t),
		Category:    CategoryTrip,
		Source:      e,
	}, true
}

func (e ItemEntity) locate(role) (LocationRecord, bool) {
	it := e.Item
	if it == nil || !it.HasCoordinates() {
		return LocationRecord{}, false
	}
	title := it.Name
	if strings.TrimSpace(title) == "" {
		title = fallbackItemTitle
	}
	cat := Category(it.Type)
	return LocationRecord{
		ID:          fmt.Sprintf("%s-%s", cat, it.ID),
		Latitude:    *it.Latitude,
		Longitude:   *it.Longitude,
		Title:       title,
		Description: itemDescription(it),
		Category:    cat,
		Source:      e,
	}, true
}

func tripDescription(t *domain.Trip) string {
	dest := strings.TrimSpace(t.Destination)
	dates := dateRange(t.StartDate, t.EndDate)
	switch {
	case dest != "" && dates != "":
		return dest + " (" + dates + ")"
	case dest != "":
		return dest
	default:
		return dates
	}
}

func dateRange(start, end *time.Time) string {
	switch {
	case start != nil && end != nil:
		return formatDate(*start) + " - " + formatDate(*end)
	case start != nil:
		return formatDate(*start)
	case end != nil:
		return formatDate(*end)
	default:
		return ""
	}
}

func itemDescription(it *domain.ItineraryItem) string {
	if it.Address != nil {
		if addr := strings.TrimSpace(*it.Address); addr != "" {
			return addr
		}
	}
	if it.StartDate != nil {
		return string(it.Type) + " - " + formatDate(*it.StartDate)
	}
	return string(it.Type)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
