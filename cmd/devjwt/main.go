package main

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Overland-East-Bay/trip-journal/internal/platform/config"
	"github.com/Overland-East-Bay/trip-journal/internal/platform/logging"
)

// Tiny dev-only JWT issuer + JWKS server.
//
// This is NOT a full OIDC provider. It exists to support local development against
// real RS256 JWT verification (iss/aud/exp/nbf + JWKS).
func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"), "console", os.Stderr)

	cfg, err := config.LoadDevJWTConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid devjwt config")
	}

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		log.Fatal().Err(err).Msg("generate key")
	}

	iss, err := newIssuer(cfg, priv, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("build issuer")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           iss.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().
		Str("port", cfg.Port).
		Str("iss", cfg.Issuer).
		Str("aud", cfg.Audience).
		Str("kid", cfg.Kid).
		Dur("ttl", cfg.TTL).
		Msg("devjwt listening")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
