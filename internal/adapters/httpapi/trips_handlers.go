package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Overland-East-Bay/trip-journal/internal/app/trips"
	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/idempotency"
)

const IdempotencyKeyHeader = "Idempotency-Key"

func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	views, err := s.Trips.ListMyTrips(r.Context(), id.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := TripListResponse{Trips: make([]Trip, 0, len(views))}
	for _, v := range views {
		out.Trips = append(out.Trips, toTrip(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var body CreateTripRequest
	if err := decodeJSON(r, &body); err != nil {
		writeValidation(w, r, "invalid request body: "+err.Error(), "", "")
		return
	}

	// Idempotency handling:
	// - Replay if same user+key+route+bodyHash
	// - Reject if same user+key+route with different bodyHash (409)
	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	var respFP idempotency.Fingerprint
	if s.Idem != nil && key != "" {
		bodyHash, err := hashCreateTripBody(body)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		metaFP := idempotency.Fingerprint{
			Key:    idempotency.Key(key),
			UserID: id.UserID,
			Method: http.MethodPost,
			Route:  "/trips",
		}
		meta, found, err := s.Idem.Get(r.Context(), metaFP)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		if found && string(meta.Body) != bodyHash {
			writeError(w, r, http.StatusConflict, CodeIdempotencyKeyReuse, "idempotency key reuse with different payload", nil)
			return
		}
		if !found {
			_ = s.Idem.Put(r.Context(), metaFP, idempotency.Record{
				ContentType: "text/plain",
				Body:        []byte(bodyHash),
				CreatedAt:   s.Clock.Now().UTC(),
			})
		}

		respFP = metaFP
		respFP.BodyHash = bodyHash
		rec, found, err := s.Idem.Get(r.Context(), respFP)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		if found && rec.StatusCode == http.StatusCreated && strings.HasPrefix(rec.ContentType, "application/json") {
			w.Header().Set("Content-Type", rec.ContentType)
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}
	}

	created, err := s.Trips.CreateTrip(r.Context(), id.UserID, trips.CreateTripInput{
		Name:        body.Name,
		Destination: body.Destination,
		Description: body.Description,
		StartDate:   fromDate(body.StartDate),
		EndDate:     fromDate(body.EndDate),
		Latitude:    body.Latitude,
		Longitude:   body.Longitude,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	resp := TripResponse{Trip: toTrip(trips.TripView{Trip: created, Access: domain.AccessOwner})}

	if respFP.Key != "" {
		if b, err := json.Marshal(resp); err == nil {
			_ = s.Idem.Put(r.Context(), respFP, idempotency.Record{
				StatusCode:  http.StatusCreated,
				ContentType: "application/json",
				Body:        b,
				CreatedAt:   s.Clock.Now().UTC(),
			})
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

// hashCreateTripBody hashes the body after the same normalization the
// service applies, so cosmetic whitespace changes still replay.
func hashCreateTripBody(b CreateTripRequest) (string, error) {
	canon := b
	canon.Name = domain.NormalizeHumanName(canon.Name)
	canon.Destination = strings.TrimSpace(canon.Destination)
	raw, err := json.Marshal(canon)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	v, err := s.Trips.GetTrip(r.Context(), id.UserID, tripIDParam(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TripResponse{Trip: toTrip(v)})
}

func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var body UpdateTripRequest
	if err := decodeJSON(r, &body); err != nil {
		writeValidation(w, r, "invalid request body: "+err.Error(), "", "")
		return
	}
	v, err := s.Trips.UpdateTrip(r.Context(), id.UserID, tripIDParam(r), trips.UpdateTripInput{
		Name:        optional(body.Name),
		Destination: optional(body.Destination),
		Description: optional(body.Description),
		StartDate:   optionalDate(body.StartDate),
		EndDate:     optionalDate(body.EndDate),
		Latitude:    optional(body.Latitude),
		Longitude:   optional(body.Longitude),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TripResponse{Trip: toTrip(v)})
}

func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	if err := s.Trips.DeleteTrip(r.Context(), id.UserID, tripIDParam(r)); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
