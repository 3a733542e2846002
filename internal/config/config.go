// Package config loads server settings.
//
// PRECEDENCE (later wins):
//  1. Defaults()
//  2. JSON file named by -c / -config or the CONFIG env var
//  3. Environment variables (PORT, JWT_SECRET, ...)
//  4. Command-line flags
//
// There is deliberately no default JWT secret. Load fails without one, so a
// forgotten variable can never start a server that signs with a known key.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Storage backends.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	ItemStoreMemory = "memory"
	ItemStoreDB     = "db"
)

var ErrMissingSecret = errors.New("config: JWT_SECRET is required")

// Config holds runtime settings for the server.
type Config struct {
	Port            int
	DBDriver        string // sqlite | postgres | memory
	DBPath          string // sqlite file, or ":memory:"
	DatabaseDSN     string // postgres DSN (pgx)
	ItemStore       string // memory | db
	JWTSecret       string
	JWTTTL          time.Duration
	BcryptCost      int
	LogLevel        string
	ShutdownTimeout time.Duration

	// Login throttling; disabled when RedisAddr is empty.
	RedisAddr        string
	LoginMaxAttempts int
	LoginWindow      time.Duration
}

// Defaults returns development settings. JWTSecret is left empty on purpose.
func Defaults() Config {
	return Config{
		Port:            8080,
		DBDriver:        DriverSQLite,
		DBPath:          "data/crudauth.db",
		ItemStore:       ItemStoreMemory,
		JWTTTL:          time.Hour,
		BcryptCost:      10,
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,

		LoginMaxAttempts: 5,
		LoginWindow:      15 * time.Minute,
	}
}

// Load builds a Config from args (os.Args[1:]) and an environment lookup
// (os.LookupEnv in production, a map in tests).
func Load(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := Defaults()

	fl, err := parseFlags(args)
	if err != nil {
		return nil, err
	}

	path := fl.configFile
	if path == "" {
		path, _ = lookupEnv("CONFIG")
	}
	if path != "" {
		if err := applyJSON(&cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg, lookupEnv); err != nil {
		return nil, err
	}
	fl.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have a closed set of values.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	switch c.DBDriver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if c.DatabaseDSN == "" {
			return errors.New("config: DATABASE_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver)
	}
	switch c.ItemStore {
	case ItemStoreMemory, ItemStoreDB:
	default:
		return fmt.Errorf("config: unknown ITEM_STORE %q", c.ItemStore)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("config: JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.RedisAddr != "" && (c.LoginMaxAttempts <= 0 || c.LoginWindow <= 0) {
		return errors.New("config: LOGIN_MAX_ATTEMPTS and LOGIN_WINDOW must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel onto slog.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: unknown LOG_LEVEL %q", c.LogLevel)
	}
	return l, nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
