package session

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Legacy XML-namespaced claim URIs emitted by some token issuers.
const (
	ClaimNameIdentifierURI = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	ClaimEmailAddressURI   = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
)

// ClaimChain is an ordered list of claim names probed in priority order.
// The first claim that is present with a non-empty value wins.
type ClaimChain []string

var (
	// UserIDClaims lists the claim names that may carry the numeric user id.
	UserIDClaims = ClaimChain{"nameid", "userid", "user_id", ClaimNameIdentifierURI}
	// EmailClaims lists the claim names that may carry the user's email.
	EmailClaims = ClaimChain{"email", "sub", ClaimEmailAddressURI}
)

// Claims is a decoded token payload.
type Claims map[string]any

// Lookup returns the first non-empty value of the chain rendered as a string.
// Strings are returned as-is, JSON numbers in base 10; other types are skipped.
func (c Claims) Lookup(chain ClaimChain) (string, bool) {
	for _, name := range chain {
		v, ok := c[name]
		if !ok || v == nil {
			continue
		}
		s, ok := claimString(v)
		if !ok || s == "" {
			continue
		}
		return s, true
	}
	return "", false
}

// UserID resolves the user id through UserIDClaims.
// It returns ok=false when no claim matches or the matched value is not a base-10 integer.
func (c Claims) UserID() (int64, bool) {
	s, ok := c.Lookup(UserIDClaims)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Email resolves the email through EmailClaims. The value is returned verbatim.
func (c Claims) Email() (string, bool) {
	for _, name := range EmailClaims {
		if s, ok := c[name].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func claimString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false
		}
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return strconv.FormatInt(int64(x), 10), true
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}
