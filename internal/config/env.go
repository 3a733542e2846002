package config

import (
	"fmt"
	"strconv"
	"time"
)

// applyEnv overlays environment variables onto cfg. Unset variables leave
// the field alone; set-but-unparseable ones are an error.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", key, v, err)
		}
		*dst = d
		return nil
	}

	str("DB_DRIVER", &cfg.DBDriver)
	str("DB_PATH", &cfg.DBPath)
	str("DATABASE_DSN", &cfg.DatabaseDSN)
	str("ITEM_STORE", &cfg.ItemStore)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("REDIS_ADDR", &cfg.RedisAddr)

	if err := num("PORT", &cfg.Port); err != nil {
		return err
	}
	if err := num("BCRYPT_COST", &cfg.BcryptCost); err != nil {
		return err
	}
	if err := num("LOGIN_MAX_ATTEMPTS", &cfg.LoginMaxAttempts); err != nil {
		return err
	}
	if err := dur("LOGIN_WINDOW", &cfg.LoginWindow); err != nil {
		return err
	}
	if err := dur("JWT_TTL", &cfg.JWTTTL); err != nil {
		return err
	}
	return dur("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)
}
