package jwtverifier

import (
	"bytes"
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Overland-East-Bay/trip-journal/internal/platform/auth/jwks"
	platformclock "github.com/Overland-East-Bay/trip-journal/internal/platform/clock"
	"github.com/Overland-East-Bay/trip-journal/internal/platform/config"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/clock"
	"github.com/Overland-East-Bay/trip-journal/internal/session"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

type Verifier struct {
	cfg    config.JWTConfig
	client *http.Client
	clock  clock.Clock

	mu          sync.Mutex
	keysByKID   map[string]*rsa.PublicKey
	lastRefresh time.Time
	refreshing  bool
	refreshDone chan struct{}
}

func New(cfg config.JWTConfig) *Verifier {
	return NewWithOptions(cfg, nil, nil)
}

func NewWithOptions(cfg config.JWTConfig, httpClient *http.Client, clk clock.Clock) *Verifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if clk == nil {
		clk = platformclock.NewSystemClock()
	}
	return &Verifier{
		cfg:       cfg,
		client:    httpClient,
		clock:     clk,
		keysByKID: map[string]*rsa.PublicKey{},
	}
}

type jwtHeader struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	Typ string `json:"typ"`
}

// Verify verifies a JWT and returns its claims.
//
// Verification:
// - RS256 signature using keys fetched from JWKS
// - iss, aud, exp, and nbf (when present)
// - a numeric user id in one of session.UserIDClaims
func (v *Verifier) Verify(ctx context.Context, token string) (session.Claims, error) {
	h, claims, signingInput, sig, err := parseJWT(token)
	if err != nil {
		return reject("parse", err)
	}
	if h.Alg != "RS256" || h.Kid == "" {
		return reject("header", fmt.Errorf("alg=%q kid=%q", h.Alg, h.Kid))
	}

	// Refresh rules:
	// - refresh periodically (rotation), even if kid exists in cache
	// - refresh on unknown kid, bounded by min refresh interval
	if err := v.maybeRefresh(ctx, h.Kid); err != nil {
		log.Warn().Err(err).Str("jwks_url", v.cfg.JWKSURL).Msg("jwks refresh failed")
		return nil, ErrUnauthorized
	}

	pub := v.getKey(h.Kid)
	if pub == nil {
		return reject("kid", fmt.Errorf("unknown kid %q", h.Kid))
	}
	if err := verifyRS256(pub, signingInput, sig); err != nil {
		return reject("signature", err)
	}
	if err := v.validateClaims(claims); err != nil {
		return reject("claims", err)
	}
	if _, ok := claims.UserID(); !ok {
		return reject("claims", errors.New("no user id claim"))
	}
	return claims, nil
}

func reject(stage string, err error) (session.Claims, error) {
	log.Debug().Str("stage", stage).Err(err).Msg("jwt rejected")
	return nil, ErrUnauthorized
}

func (v *Verifier) validateClaims(c session.Claims) error {
	now := v.clock.Now()
	skew := v.cfg.ClockSkew

	if iss, _ := c["iss"].(string); iss != v.cfg.Issuer {
		return fmt.Errorf("iss mismatch")
	}
	if !audMatches(c["aud"], v.cfg.Audience) {
		return fmt.Errorf("aud mismatch")
	}
	exp, ok, err := numericDate(c, "exp")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("missing exp")
	}
	if now.After(exp.Add(skew)) {
		return fmt.Errorf("token expired")
	}
	nbf, ok, err := numericDate(c, "nbf")
	if err != nil {
		return err
	}
	if ok && now.Before(nbf.Add(-skew)) {
		return fmt.Errorf("token not yet valid")
	}
	return nil
}

func numericDate(c session.Claims, key string) (time.Time, bool, error) {
	raw, ok := c[key]
	if !ok || raw == nil {
		return time.Time{}, false, nil
	}
	secs, ok := raw.(float64)
	if !ok || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, false, fmt.Errorf("%s is not a number", key)
	}
	return time.Unix(int64(math.Max(-maxNumericDate, math.Min(secs, maxNumericDate))), 0), true, nil
}

// maxNumericDate is 9999-12-31T23:59:59Z. Claims past it are clamped so the
// int64 conversion and skew arithmetic stay in range.
const maxNumericDate = 253402300799

func (v *Verifier) getKey(kid string) *rsa.PublicKey {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.keysByKID[kid]
}

func (v *Verifier) maybeRefresh(ctx context.Context, kid string) error {
	now := v.clock.Now()

	v.mu.Lock()
	needsIntervalRefresh := !v.lastRefresh.IsZero() && v.cfg.JWKSRefreshInterval > 0 && now.Sub(v.lastRefresh) >= v.cfg.JWKSRefreshInterval
	unknownKid := v.keysByKID[kid] == nil
	allowedUnknownKidRefresh := v.lastRefresh.IsZero() || v.cfg.JWKSMinRefreshInterval <= 0 || now.Sub(v.lastRefresh) >= v.cfg.JWKSMinRefreshInterval
	shouldRefresh := needsIntervalRefresh || (unknownKid && allowedUnknownKidRefresh)

	if !shouldRefresh {
		v.mu.Unlock()
		return nil
	}

	// Deduplicate concurrent refresh attempts.
	if v.refreshing {
		ch := v.refreshDone
		v.mu.Unlock()
		select {
		case <-ch:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	v.refreshing = true
	v.refreshDone = make(chan struct{})
	ch := v.refreshDone
	v.mu.Unlock()

	err := v.refresh(ctx)

	v.mu.Lock()
	v.refreshing = false
	close(ch)
	v.mu.Unlock()

	return err
}

func (v *Verifier) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.cfg.JWKSURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("jwks fetch failed: status=%d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	keys, err := jwks.Parse(body)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.keysByKID = keys
	v.lastRefresh = v.clock.Now()
	v.mu.Unlock()

	log.Debug().Int("keys", len(keys)).Msg("jwks refreshed")
	return nil
}

func parseJWT(token string) (jwtHeader, session.Claims, string, []byte, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return jwtHeader{}, nil, "", nil, fmt.Errorf("bad jwt parts")
	}
	headerB, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return jwtHeader{}, nil, "", nil, err
	}
	claimsB, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return jwtHeader{}, nil, "", nil, err
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return jwtHeader{}, nil, "", nil, err
	}
	var h jwtHeader
	if err := json.Unmarshal(headerB, &h); err != nil {
		return jwtHeader{}, nil, "", nil, err
	}
	var c session.Claims
	if err := json.NewDecoder(bytes.NewReader(claimsB)).Decode(&c); err != nil {
		return jwtHeader{}, nil, "", nil, err
	}
	if c == nil {
		return jwtHeader{}, nil, "", nil, fmt.Errorf("claims are not an object")
	}
	return h, c, parts[0] + "." + parts[1], sig, nil
}

func verifyRS256(pub *rsa.PublicKey, signingInput string, sig []byte) error {
	sum := sha256.Sum256([]byte(signingInput))
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, sum[:], sig)
}

// audMatches accepts aud as a string or an array of strings.
func audMatches(raw any, expected string) bool {
	switch aud := raw.(type) {
	case string:
		return aud == expected
	case []any:
		for _, v := range aud {
			if s, ok := v.(string); ok && s == expected {
				return true
			}
		}
	}
	return false
}
