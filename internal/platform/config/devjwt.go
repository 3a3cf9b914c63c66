package config

import "time"

// DevJWTConfig configures cmd/devjwt, the local token issuer.
type DevJWTConfig struct {
	Port     string
	Issuer   string
	Audience string
	Kid      string
	TTL      time.Duration
}

func LoadDevJWTConfig() (DevJWTConfig, error) {
	v := newEnv()
	v.SetDefault("PORT", "5556")
	v.SetDefault("ISSUER", "http://devjwt:5556")
	v.SetDefault("AUDIENCE", "trip-journal")
	v.SetDefault("KID", "dev-kid-1")

	cfg := DevJWTConfig{
		Port:     v.GetString("PORT"),
		Issuer:   v.GetString("ISSUER"),
		Audience: v.GetString("AUDIENCE"),
		Kid:      v.GetString("KID"),
	}
	var err error
	if cfg.TTL, err = duration(v, "TTL", 30*time.Minute, "30m"); err != nil {
		return DevJWTConfig{}, err
	}
	return cfg, nil
}
