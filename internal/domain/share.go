package domain

import "time"

type Permission string

const (
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
)

func (p Permission) Valid() bool {
	return p == PermissionView || p == PermissionEdit
}

// Share grants a user access to someone else's trip.
type Share struct {
	TripID     TripID
	UserID     UserID
	Permission Permission
	CreatedAt  time.Time
}

// Access is the caller's effective access level on a trip.
type Access int

const (
	AccessNone Access = iota
	AccessView
	AccessEdit
	AccessOwner
)

func (a Access) CanRead() bool  { return a >= AccessView }
func (a Access) CanWrite() bool { return a >= AccessEdit }
