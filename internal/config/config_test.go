package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsPlusSecret(t *testing.T) {
	cfg, err := Load(nil, envMap(map[string]string{"JWT_SECRET": "s3cr3t-s3cr3t-s3cr3t"}))
	require.NoError(t, err)

	want := Defaults()
	want.JWTSecret = "s3cr3t-s3cr3t-s3cr3t"
	assert.Empty(t, cmp.Diff(&want, cfg))
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_MissingSecret(t *testing.T) {
	_, err := Load(nil, envMap(nil))
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeJSON(t, `{
		"port": 9000,
		"db_driver": "memory",
		"jwt_secret": "from-file-secret-123",
		"jwt_ttl": "30m",
		"log_level": "debug"
	}`)

	env := envMap(map[string]string{
		"PORT":        "9100",
		"ITEM_STORE":  "db",
		"BCRYPT_COST": "12",
	})
	cfg, err := Load([]string{"-c", path, "-port", "9200"}, env)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Port, "flag beats env beats file")
	assert.Equal(t, DriverMemory, cfg.DBDriver, "file beats default")
	assert.Equal(t, ItemStoreDB, cfg.ItemStore, "env beats default")
	assert.Equal(t, "from-file-secret-123", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	path := writeJSON(t, `{"jwt_secret": "via-env-pointer-1234", "shutdown_timeout": 2000000000}`)

	cfg, err := Load(nil, envMap(map[string]string{"CONFIG": path}))
	require.NoError(t, err)
	assert.Equal(t, "via-env-pointer-1234", cfg.JWTSecret)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_UnsetFlagsDoNotOverrideEnv(t *testing.T) {
	env := envMap(map[string]string{"JWT_SECRET": "x-x-x-x-x-x-x-x-x", "PORT": "7000"})
	cfg, err := Load([]string{"-log-level", "warn"}, env)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	secret := map[string]string{"JWT_SECRET": "x-x-x-x-x-x-x-x-x"}
	with := func(k, v string) map[string]string {
		m := map[string]string{}
		for kk, vv := range secret {
			m[kk] = vv
		}
		m[k] = v
		return m
	}

	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad port env", nil, with("PORT", "eighty")},
		{"port out of range", nil, with("PORT", "70000")},
		{"unknown driver", nil, with("DB_DRIVER", "mysql")},
		{"postgres without dsn", nil, with("DB_DRIVER", "postgres")},
		{"unknown item store", nil, with("ITEM_STORE", "redis")},
		{"bad ttl", nil, with("JWT_TTL", "soon")},
		{"non-positive ttl", nil, with("JWT_TTL", "-1m")},
		{"bad log level", nil, with("LOG_LEVEL", "loud")},
		{"bad login attempts", nil, with("LOGIN_MAX_ATTEMPTS", "many")},
		{"bad login window", nil, with("LOGIN_WINDOW", "a while")},
		{"unknown flag", []string{"-nope"}, secret},
		{"missing config file", []string{"-c", "/does/not/exist.json"}, secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args, envMap(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1h30m"`)))
	assert.Equal(t, 90*time.Minute, d.Duration)

	require.NoError(t, d.UnmarshalJSON([]byte(`1000`)))
	assert.Equal(t, time.Microsecond, d.Duration)

	assert.Error(t, d.UnmarshalJSON([]byte(`true`)))
	assert.Error(t, d.UnmarshalJSON([]byte(`"later"`)))
}

func TestLoad_RedisThrottling(t *testing.T) {
	env := envMap(map[string]string{
		"JWT_SECRET":         "x-x-x-x-x-x-x-x-x",
		"LOGIN_MAX_ATTEMPTS": "3",
		"LOGIN_WINDOW":       "5m",
	})
	cfg, err := Load([]string{"-redis-addr", "localhost:6379"}, env)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.LoginMaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.LoginWindow)

	env = envMap(map[string]string{
		"JWT_SECRET":         "x-x-x-x-x-x-x-x-x",
		"REDIS_ADDR":         "localhost:6379",
		"LOGIN_MAX_ATTEMPTS": "0",
	})
	_, err = Load(nil, env)
	assert.Error(t, err, "throttling with zero attempts")
}
