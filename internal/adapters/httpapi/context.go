package httpapi

import (
	"context"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
)

type identityKey struct{}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID domain.UserID
	Email  string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(identityKey{}).(Identity)
	return v, ok && v.UserID != 0
}
