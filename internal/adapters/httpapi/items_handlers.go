package httpapi

import (
	"net/http"

	"github.com/Overland-East-Bay/trip-journal/internal/app/trips"
	"github.com/Overland-East-Bay/trip-journal/internal/domain"
)

func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	items, err := s.Trips.ListItems(r.Context(), id.UserID, tripIDParam(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := ItemListResponse{Items: make([]Item, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, toItem(it))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var body CreateItemRequest
	if err := decodeJSON(r, &body); err != nil {
		writeValidation(w, r, "invalid request body: "+err.Error(), "", "")
		return
	}
	it, err := s.Trips.AddItem(r.Context(), id.UserID, tripIDParam(r), trips.CreateItemInput{
		Type:      domain.ItemType(body.Type),
		Name:      body.Name,
		Address:   body.Address,
		StartDate: body.StartAt,
		EndDate:   body.EndAt,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
		Position:  body.Position,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ItemResponse{Item: toItem(it)})
}

func (s *Server) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var body UpdateItemRequest
	if err := decodeJSON(r, &body); err != nil {
		writeValidation(w, r, "invalid request body: "+err.Error(), "", "")
		return
	}
	in := trips.UpdateItemInput{
		Name:      optional(body.Name),
		Address:   optional(body.Address),
		Position:  optional(body.Position),
		StartDate: optional(body.StartAt),
		EndDate:   optional(body.EndAt),
		Latitude:  optional(body.Latitude),
		Longitude: optional(body.Longitude),
	}
	switch typ := optional(body.Type); {
	case typ.IsNull():
		in.Type = trips.Null[domain.ItemType]()
	case typ.IsSpecified():
		in.Type = trips.Some(domain.ItemType(typ.Value()))
	}
	it, err := s.Trips.UpdateItem(r.Context(), id.UserID, tripIDParam(r), itemIDParam(r), in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemResponse{Item: toItem(it)})
}

func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	if err := s.Trips.DeleteItem(r.Context(), id.UserID, tripIDParam(r), itemIDParam(r)); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
