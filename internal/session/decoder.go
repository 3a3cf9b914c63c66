package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/clock"
)

// Status is the detailed outcome of inspecting the stored token.
type Status struct {
	Valid     bool
	Reason    Reason
	ExpiresAt *time.Time
}

// Decoder derives session facts from the stored token without any network call.
//
// Every failure (missing, malformed or expired token) is reported as "no session":
// IsValid returns false and the accessors return ok=false.
type Decoder struct {
	store *TokenStore
	clock clock.Clock
}

func NewDecoder(store *TokenStore, clk clock.Clock) *Decoder {
	return &Decoder{store: store, clock: clk}
}

func (d *Decoder) IsValid(ctx context.Context) bool {
	_, ok := d.claims(ctx)
	return ok
}

// CurrentUserID returns the user id carried by the first matching claim of UserIDClaims.
func (d *Decoder) CurrentUserID(ctx context.Context) (int64, bool) {
	c, ok := d.claims(ctx)
	if !ok {
		return 0, false
	}
	return c.UserID()
}

// CurrentUserEmail returns the email carried by the first matching claim of EmailClaims.
func (d *Decoder) CurrentUserEmail(ctx context.Context) (string, bool) {
	c, ok := d.claims(ctx)
	if !ok {
		return "", false
	}
	return c.Email()
}

// RawPayload returns the full decoded payload for claims not covered by the accessors.
func (d *Decoder) RawPayload(ctx context.Context) (map[string]any, bool) {
	c, ok := d.claims(ctx)
	if !ok {
		return nil, false
	}
	return map[string]any(c), true
}

// Inspect reports why the stored token is or is not usable.
func (d *Decoder) Inspect(ctx context.Context) Status {
	token, ok := d.store.Get(ctx)
	if !ok {
		return Status{Reason: ReasonMissing}
	}
	c, reason := Decode(token, d.clock.Now())
	st := Status{Valid: reason == ReasonOK, Reason: reason}
	if exp, ok := c.ExpiresAt(); ok {
		st.ExpiresAt = &exp
	}
	return st
}

func (d *Decoder) claims(ctx context.Context) (Claims, bool) {
	token, ok := d.store.Get(ctx)
	if !ok {
		return nil, false
	}
	c, reason := Decode(token, d.clock.Now())
	if reason != ReasonOK {
		log.Debug().Str("reason", string(reason)).Msg("stored token rejected")
		return nil, false
	}
	return c, true
}
