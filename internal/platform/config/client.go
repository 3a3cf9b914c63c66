package config

import (
	"fmt"
	"path/filepath"
)

type TokenBackend string

const (
	TokenBackendFile   TokenBackend = "file"
	TokenBackendRedis  TokenBackend = "redis"
	TokenBackendMemory TokenBackend = "memory"
)

// ClientConfig configures the journal CLI.
//
// Values come from JOURNAL_* env vars, overriding an optional config.yaml in
// TokenDir (or the file named by JOURNAL_CONFIG).
type ClientConfig struct {
	ServerURL string

	TokenBackend TokenBackend
	TokenDir     string
	TokenKey     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
}

// LoadClientConfig reads the client settings. defaultDir is used when
// JOURNAL_TOKEN_DIR is unset.
func LoadClientConfig(defaultDir string) (ClientConfig, error) {
	v := newEnv()
	v.SetEnvPrefix("JOURNAL")
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("token_backend", string(TokenBackendFile))
	v.SetDefault("token_dir", defaultDir)
	v.SetDefault("token_key", "authToken")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("log_level", "warn")
	for _, k := range []string{"server_url", "token_backend", "token_dir", "token_key", "redis_addr", "redis_password", "redis_db", "log_level", "config"} {
		_ = v.BindEnv(k)
	}

	file := v.GetString("config")
	if file == "" && v.GetString("token_dir") != "" {
		file = filepath.Join(v.GetString("token_dir"), "config.yaml")
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && v.GetString("config") != "" {
			// Only an explicitly named file is required to exist.
			return ClientConfig{}, fmt.Errorf("read %s: %w", file, err)
		}
	}

	cfg := ClientConfig{
		ServerURL:     v.GetString("server_url"),
		TokenBackend:  TokenBackend(v.GetString("token_backend")),
		TokenDir:      v.GetString("token_dir"),
		TokenKey:      v.GetString("token_key"),
		RedisAddr:     v.GetString("redis_addr"),
		RedisPassword: v.GetString("redis_password"),
		RedisDB:       v.GetInt("redis_db"),
		LogLevel:      v.GetString("log_level"),
	}
	switch cfg.TokenBackend {
	case TokenBackendFile, TokenBackendRedis, TokenBackendMemory:
	default:
		return ClientConfig{}, fmt.Errorf("JOURNAL_TOKEN_BACKEND must be file, redis or memory, got %q", cfg.TokenBackend)
	}
	if cfg.ServerURL == "" {
		return ClientConfig{}, fmt.Errorf("JOURNAL_SERVER_URL must not be empty")
	}
	return cfg, nil
}
