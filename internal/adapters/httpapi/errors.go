package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"
	"github.com/rs/zerolog/log"

	"github.com/Overland-East-Bay/trip-journal/internal/app/trips"
)

const (
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeValidation          = trips.CodeValidation
	CodeIdempotencyKeyReuse = "IDEMPOTENCY_KEY_REUSE"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrorBody is the payload of every non-2xx response.
type ErrorBody struct {
	Code      string                             `json:"code"`
	Message   string                             `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestId nullable.Nullable[string]          `json:"requestId,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}
	writeJSON(w, status, er)
}

// writeAppError renders application errors with their own status and hides
// everything else behind a 500.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *trips.Error
	if errors.As(err, &ae) {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	log.Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", middleware.GetReqID(r.Context())).
		Msg("request failed")
	writeError(w, r, http.StatusInternalServerError, CodeInternal, "internal error", nil)
}

func writeValidation(w http.ResponseWriter, r *http.Request, message, field, reason string) {
	var details map[string]any
	if field != "" {
		details = map[string]any{field: reason}
	}
	writeError(w, r, http.StatusUnprocessableEntity, CodeValidation, message, details)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("missing request body")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}
