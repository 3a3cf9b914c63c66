package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
)

type AuthMode string

const (
	AuthModeJWT AuthMode = "jwt"
	// AuthModeDev bypasses JWT verification and trusts the X-Debug-User-Id header.
	AuthModeDev AuthMode = "dev"
)

type StorageBackend string

const (
	StorageMemory   StorageBackend = "memory"
	StoragePostgres StorageBackend = "postgres"
)

// ServerConfig configures cmd/api.
type ServerConfig struct {
	Port      string
	AuthMode  AuthMode
	DevUserID domain.UserID

	Storage     StorageBackend
	DatabaseURL string

	MapCacheTTL time.Duration
	LogLevel    string
	LogFormat   string
}

func LoadServerConfig() (ServerConfig, error) {
	v := newEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("AUTH_MODE", string(AuthModeJWT))
	v.SetDefault("DEV_USER_ID", "1")
	v.SetDefault("STORAGE_BACKEND", string(StorageMemory))
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	cfg := ServerConfig{
		Port:        v.GetString("PORT"),
		AuthMode:    AuthMode(v.GetString("AUTH_MODE")),
		Storage:     StorageBackend(v.GetString("STORAGE_BACKEND")),
		DatabaseURL: v.GetString("DATABASE_URL"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
	}

	switch cfg.AuthMode {
	case AuthModeJWT, AuthModeDev:
	default:
		return ServerConfig{}, fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeJWT, AuthModeDev, cfg.AuthMode)
	}

	devID, err := strconv.ParseInt(v.GetString("DEV_USER_ID"), 10, 64)
	if err != nil || devID <= 0 {
		return ServerConfig{}, fmt.Errorf("DEV_USER_ID must be a positive integer")
	}
	cfg.DevUserID = domain.UserID(devID)

	switch cfg.Storage {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return ServerConfig{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return ServerConfig{}, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageMemory, StoragePostgres, cfg.Storage)
	}

	if cfg.MapCacheTTL, err = duration(v, "MAP_CACHE_TTL", time.Minute, "1m"); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}
