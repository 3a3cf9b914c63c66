package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// newEnv returns a viper instance that resolves keys from the process environment.
// Keys are the literal env var names (e.g. "JWT_ISSUER").
func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

// duration reads key as a Go duration string, keeping def when unset.
// viper's own GetDuration maps garbage to zero, which would hide typos.
func duration(v *viper.Viper, key string, def time.Duration, example string) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. %s): %w", key, example, err)
	}
	return d, nil
}
