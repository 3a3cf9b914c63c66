package trips

import "net/http"

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

const (
	CodeTripNotFound   = "TRIP_NOT_FOUND"
	CodeItemNotFound   = "ITEM_NOT_FOUND"
	CodeForbidden      = "FORBIDDEN"
	CodeValidation     = "VALIDATION_ERROR"
	CodeTripIDConflict = "TRIP_ID_CONFLICT"
	CodeItemIDConflict = "ITEM_ID_CONFLICT"
)

func errTripNotFound() *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeTripNotFound, Message: "trip not found"}
}

func errItemNotFound() *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeItemNotFound, Message: "itinerary item not found"}
}

func errForbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeForbidden, Message: msg}
}

func errValidation(msg, field, reason string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: CodeValidation, Message: msg, Details: map[string]any{field: reason}}
}
