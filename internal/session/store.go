package session

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/tokenstorage"
)

// DefaultTokenKey is the storage slot holding the bearer token.
const DefaultTokenKey = "authToken"

// TokenStore is the single owner of the raw token string in client storage.
// It keeps no in-memory copy: every Get re-reads storage, so a Clear from any
// code path is visible immediately.
type TokenStore struct {
	storage tokenstorage.Storage
	key     string
}

func NewTokenStore(storage tokenstorage.Storage, key string) *TokenStore {
	if key == "" {
		key = DefaultTokenKey
	}
	return &TokenStore{storage: storage, key: key}
}

// Get returns the stored token. Storage read failures are logged and reported as absent.
func (s *TokenStore) Get(ctx context.Context) (string, bool) {
	v, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("token storage read failed")
		return "", false
	}
	return v, ok
}

// Set overwrites the stored token. No format validation is performed.
func (s *TokenStore) Set(ctx context.Context, token string) error {
	return s.storage.Set(ctx, s.key, token)
}

// Clear removes the stored token. Clearing an empty store is a no-op.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.storage.Remove(ctx, s.key)
}
