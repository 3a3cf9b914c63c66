package itemrepo

import "errors"

var (
	ErrNotFound      = errors.New("itinerary item not found")
	ErrAlreadyExists = errors.New("itinerary item already exists")
)
