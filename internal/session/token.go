package session

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strings"
	"time"
)

// Reason explains why a token is or is not usable. Callers that only need a
// yes/no answer use Decoder.IsValid and never see it.
type Reason string

const (
	ReasonOK        Reason = "ok"
	ReasonMissing   Reason = "missing"
	ReasonMalformed Reason = "malformed"
	ReasonExpired   Reason = "expired"
)

// Decode parses the payload segment of a three-segment token without
// verifying its signature and checks the optional exp claim against now.
//
// A token is usable iff it has exactly three dot-separated segments, the
// middle one is base64 encoded JSON object, and now is strictly before exp
// (seconds) when exp is present.
func Decode(token string, now time.Time) (Claims, Reason) {
	if token == "" {
		return nil, ReasonMissing
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ReasonMalformed
	}
	raw, err := decodeSegment(parts[1])
	if err != nil {
		return nil, ReasonMalformed
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	var claims Claims
	if err := dec.Decode(&claims); err != nil || claims == nil {
		return nil, ReasonMalformed
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ReasonMalformed
	}

	secs, ok, err := expSeconds(claims)
	if err != nil {
		return nil, ReasonMalformed
	}
	if ok && !(float64(now.UnixMilli()) < secs*1000) {
		return claims, ReasonExpired
	}
	return claims, ReasonOK
}

// ExpiresAt returns the exp claim as a time, if present and numeric. Values
// beyond the range of time.Time are clamped to its bounds.
func (c Claims) ExpiresAt() (time.Time, bool) {
	secs, ok, err := expSeconds(c)
	if err != nil || !ok {
		return time.Time{}, false
	}
	ms := secs * 1000
	switch {
	case ms >= math.MaxInt64:
		return time.UnixMilli(math.MaxInt64), true
	case ms <= math.MinInt64:
		return time.UnixMilli(math.MinInt64), true
	}
	return time.UnixMilli(int64(ms)), true
}

var errMalformedExp = errors.New("exp claim is not a number")

func expSeconds(c Claims) (float64, bool, error) {
	v, ok := c["exp"]
	if !ok || v == nil {
		return 0, false, nil
	}
	secs, ok := v.(float64)
	if !ok || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, false, errMalformedExp
	}
	return secs, true, nil
}

// decodeSegment accepts both the URL-safe and the standard base64 alphabets,
// with or without padding.
func decodeSegment(seg string) ([]byte, error) {
	seg = strings.TrimRight(seg, "=")
	seg = strings.NewReplacer("+", "-", "/", "_").Replace(seg)
	return base64.RawURLEncoding.DecodeString(seg)
}
