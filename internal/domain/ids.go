package domain

import "strconv"

// UserID identifies a user. Users are owned by the identity provider; the
// numeric id is carried in token claims (see session.UserIDClaims).
type UserID int64

func (id UserID) String() string { return strconv.FormatInt(int64(id), 10) }

// TripID is an internal identifier for a trip record.
type TripID string

// ItemID is an internal identifier for an itinerary item.
type ItemID string
