package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Overland-East-Bay/trip-journal/internal/app/maps"
	"github.com/Overland-East-Bay/trip-journal/internal/app/trips"
	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/clock"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/idempotency"
)

// Server implements the journal's HTTP handlers on top of the application services.
type Server struct {
	Trips *trips.Service
	Maps  *maps.Service

	// Idem is optional; without it Idempotency-Key headers are ignored.
	Idem  idempotency.Store
	Clock clock.Clock
}

func NewServer(tripSvc *trips.Service, mapSvc *maps.Service, idem idempotency.Store, clk clock.Clock) *Server {
	return &Server{Trips: tripSvc, Maps: mapSvc, Idem: idem, Clock: clk}
}

// caller returns the authenticated user or writes a 401.
func caller(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, CodeUnauthorized, "missing user", nil)
		return Identity{}, false
	}
	return id, true
}

func tripIDParam(r *http.Request) domain.TripID {
	return domain.TripID(strings.TrimSpace(chi.URLParam(r, "tripId")))
}

func itemIDParam(r *http.Request) domain.ItemID {
	return domain.ItemID(strings.TrimSpace(chi.URLParam(r, "itemId")))
}

func userIDParam(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	raw := chi.URLParam(r, "userId")
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		writeValidation(w, r, "invalid user id", "userId", "must be a positive integer")
		return 0, false
	}
	return domain.UserID(n), true
}

func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, Me{UserID: int64(id.UserID), Email: id.Email})
}
