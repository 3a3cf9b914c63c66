package httpapi

import (
	"net/http"
	"strings"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
)

func (s *Server) ListShares(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	shares, err := s.Trips.ListShares(r.Context(), id.UserID, tripIDParam(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := ShareListResponse{Shares: make([]Share, 0, len(shares))}
	for _, sh := range shares {
		out.Shares = append(out.Shares, toShare(sh))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) PutShare(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	target, ok := userIDParam(w, r)
	if !ok {
		return
	}
	var body PutShareRequest
	if err := decodeJSON(r, &body); err != nil {
		writeValidation(w, r, "invalid request body: "+err.Error(), "", "")
		return
	}
	perm := domain.Permission(strings.ToLower(strings.TrimSpace(body.Permission)))
	sh, err := s.Trips.ShareTrip(r.Context(), id.UserID, tripIDParam(r), target, perm)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ShareResponse{Share: toShare(sh)})
}

func (s *Server) DeleteShare(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	target, ok := userIDParam(w, r)
	if !ok {
		return
	}
	if err := s.Trips.RevokeShare(r.Context(), id.UserID, tripIDParam(r), target); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
