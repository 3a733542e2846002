package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// flagValues holds what was given on the command line. Only flags the user
// actually passed are applied, so an unset flag never clobbers env or file
// values with its default.
type flagValues struct {
	configFile string
	set        map[string]bool

	port       int
	dbDriver   string
	dbPath     string
	dsn        string
	itemStore  string
	jwtTTL     time.Duration
	bcryptCost int
	logLevel   string
	redisAddr  string
}

// parseFlags understands:
//
//	-c, -config string   JSON config file
//	-port int            listen port
//	-db-driver string    sqlite | postgres | memory
//	-db-path string      sqlite file
//	-dsn string          postgres DSN
//	-item-store string   memory | db
//	-jwt-ttl duration    token lifetime, e.g. 30m
//	-bcrypt-cost int     bcrypt work factor
//	-log-level string    debug | info | warn | error
//	-redis-addr string   host:port enabling login throttling
//
// The JWT secret has no flag: command lines end up in shell history and ps.
func parseFlags(args []string) (*flagValues, error) {
	fv := &flagValues{set: make(map[string]bool)}

	fs := flag.NewFlagSet("crudauth", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&fv.configFile, "c", "", "JSON config file")
	fs.StringVar(&fv.configFile, "config", "", "JSON config file")
	fs.IntVar(&fv.port, "port", 0, "listen port")
	fs.StringVar(&fv.dbDriver, "db-driver", "", "sqlite | postgres | memory")
	fs.StringVar(&fv.dbPath, "db-path", "", "sqlite database file")
	fs.StringVar(&fv.dsn, "dsn", "", "postgres DSN")
	fs.StringVar(&fv.itemStore, "item-store", "", "memory | db")
	fs.DurationVar(&fv.jwtTTL, "jwt-ttl", 0, "access token lifetime")
	fs.IntVar(&fv.bcryptCost, "bcrypt-cost", 0, "bcrypt work factor")
	fs.StringVar(&fv.logLevel, "log-level", "", "debug | info | warn | error")
	fs.StringVar(&fv.redisAddr, "redis-addr", "", "redis host:port for login throttling")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	fs.Visit(func(f *flag.Flag) { fv.set[f.Name] = true })

	return fv, nil
}

func (fv *flagValues) apply(cfg *Config) {
	if fv.set["port"] {
		cfg.Port = fv.port
	}
	if fv.set["db-driver"] {
		cfg.DBDriver = fv.dbDriver
	}
	if fv.set["db-path"] {
		cfg.DBPath = fv.dbPath
	}
	if fv.set["dsn"] {
		cfg.DatabaseDSN = fv.dsn
	}
	if fv.set["item-store"] {
		cfg.ItemStore = fv.itemStore
	}
	if fv.set["jwt-ttl"] {
		cfg.JWTTTL = fv.jwtTTL
	}
	if fv.set["bcrypt-cost"] {
		cfg.BcryptCost = fv.bcryptCost
	}
	if fv.set["log-level"] {
		cfg.LogLevel = fv.logLevel
	}
	if fv.set["redis-addr"] {
		cfg.RedisAddr = fv.redisAddr
	}
}
