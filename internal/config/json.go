package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration parses JSON strings like "90s" as well as integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

// fileConfig is the JSON file layout. Pointer fields distinguish "absent"
// from a zero value so a file only overrides what it names.
type fileConfig struct {
	Port            *int      `json:"port"`
	DBDriver        *string   `json:"db_driver"`
	DBPath          *string   `json:"db_path"`
	DatabaseDSN     *string   `json:"database_dsn"`
	ItemStore       *string   `json:"item_store"`
	JWTSecret       *string   `json:"jwt_secret"`
	JWTTTL          *Duration `json:"jwt_ttl"`
	BcryptCost      *int      `json:"bcrypt_cost"`
	LogLevel        *string   `json:"log_level"`
	ShutdownTimeout *Duration `json:"shutdown_timeout"`

	RedisAddr        *string   `json:"redis_addr"`
	LoginMaxAttempts *int      `json:"login_max_attempts"`
	LoginWindow      *Duration `json:"login_window"`
}

func applyJSON(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}

	setIf(&cfg.Port, fc.Port)
	setIf(&cfg.DBDriver, fc.DBDriver)
	setIf(&cfg.DBPath, fc.DBPath)
	setIf(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setIf(&cfg.ItemStore, fc.ItemStore)
	setIf(&cfg.JWTSecret, fc.JWTSecret)
	setIf(&cfg.BcryptCost, fc.BcryptCost)
	setIf(&cfg.LogLevel, fc.LogLevel)
	if fc.JWTTTL != nil {
		cfg.JWTTTL = fc.JWTTTL.Duration
	}
	if fc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
	setIf(&cfg.RedisAddr, fc.RedisAddr)
	setIf(&cfg.LoginMaxAttempts, fc.LoginMaxAttempts)
	if fc.LoginWindow != nil {
		cfg.LoginWindow = fc.LoginWindow.Duration
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
