package httpapi

import "net/http"

func (s *Server) GetTripMap(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	v, err := s.Maps.TripMap(r.Context(), id.UserID, tripIDParam(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMap(v))
}

func (s *Server) GetDashboardMap(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	v, err := s.Maps.DashboardMap(r.Context(), id.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMap(v))
}
