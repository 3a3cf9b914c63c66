package main

import (
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Overland-East-Bay/trip-journal/internal/platform/auth/jwks"
	"github.com/Overland-East-Bay/trip-journal/internal/platform/config"
)

// nbfSkew backdates nbf a little for clocks that run behind.
const nbfSkew = 5 * time.Second

type issuer struct {
	cfg      config.DevJWTConfig
	priv     *rsa.PrivateKey
	jwksJSON []byte
	now      func() time.Time
}

func newIssuer(cfg config.DevJWTConfig, priv *rsa.PrivateKey, now func() time.Time) (*issuer, error) {
	set, err := jwks.Encode([]jwks.Key{{Kid: cfg.Kid, Public: &priv.PublicKey}})
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &issuer{cfg: cfg, priv: priv, jwksJSON: set, now: now}, nil
}

func (i *issuer) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	// Common JWKS path used by many providers.
	r.Get("/.well-known/jwks.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(i.jwksJSON)
	})
	// Mint a JWT:
	//   GET /token?userId=42&email=alice@example.com
	r.Get("/token", i.token)
	return r
}

func (i *issuer) token(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawID := strings.TrimSpace(q.Get("userId"))
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "userId must be a positive integer", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(q.Get("email"))

	now := i.now()
	exp := now.Add(i.cfg.TTL)
	token, err := i.mint(userID, email, now)
	if err != nil {
		http.Error(w, "failed to mint token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token":  token,
		"userId": userID,
		"email":  email,
		"iss":    i.cfg.Issuer,
		"aud":    i.cfg.Audience,
		"exp":    exp.Unix(),
	})
}

func (i *issuer) mint(userID int64, email string, now time.Time) (string, error) {
	sub := email
	if sub == "" {
		sub = strconv.FormatInt(userID, 10)
	}
	claims := jwt.MapClaims{
		"iss":    i.cfg.Issuer,
		"aud":    i.cfg.Audience,
		"sub":    sub,
		"nameid": strconv.FormatInt(userID, 10),
		"iat":    now.Unix(),
		"exp":    now.Add(i.cfg.TTL).Unix(),
		"nbf":    now.Add(-nbfSkew).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}
	t := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	t.Header["kid"] = i.cfg.Kid
	return t.SignedString(i.priv)
}
