package config

import (
	"fmt"
	"time"
)

// JWTConfig configures JWT verification against a JWKS endpoint.
type JWTConfig struct {
	Issuer   string
	Audience string
	JWKSURL  string

	ClockSkew              time.Duration
	JWKSRefreshInterval    time.Duration
	JWKSMinRefreshInterval time.Duration

	HTTPTimeout time.Duration
}

func LoadJWTConfig() (JWTConfig, error) {
	v := newEnv()

	cfg := JWTConfig{
		Issuer:   v.GetString("JWT_ISSUER"),
		Audience: v.GetString("JWT_AUDIENCE"),
		JWKSURL:  v.GetString("JWT_JWKS_URL"),
	}
	if cfg.Issuer == "" || cfg.Audience == "" || cfg.JWKSURL == "" {
		return JWTConfig{}, fmt.Errorf("missing required env vars: JWT_ISSUER, JWT_AUDIENCE, JWT_JWKS_URL")
	}

	var err error
	if cfg.ClockSkew, err = duration(v, "JWT_CLOCK_SKEW", 30*time.Second, "30s"); err != nil {
		return JWTConfig{}, err
	}
	// Refresh periodically to pick up key rotation even if an old key is still cached.
	if cfg.JWKSRefreshInterval, err = duration(v, "JWT_JWKS_REFRESH_INTERVAL", 5*time.Minute, "5m"); err != nil {
		return JWTConfig{}, err
	}
	// Bound refresh frequency when a token presents an unknown kid.
	if cfg.JWKSMinRefreshInterval, err = duration(v, "JWT_JWKS_MIN_REFRESH_INTERVAL", 10*time.Second, "10s"); err != nil {
		return JWTConfig{}, err
	}
	if cfg.HTTPTimeout, err = duration(v, "JWT_HTTP_TIMEOUT", 5*time.Second, "5s"); err != nil {
		return JWTConfig{}, err
	}
	return cfg, nil
}
