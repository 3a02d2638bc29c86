package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileWithDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  url: postgres://localhost/lifetrack?sslmode=disable
auth:
  jwt_secret: 0123456789abcdef0123
  access_token_ttl: 5m
timezone: Europe/Berlin
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.False(t, cfg.Email.Enabled())
	assert.False(t, cfg.Telegram.Enabled())
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://file
auth:
  jwt_secret: from-file-secret-value
`)
	t.Setenv("LIFETRACK_DATABASE_URL", "postgres://env")
	t.Setenv("LIFETRACK_JWT_SECRET", "from-env-secret-value")
	t.Setenv("LIFETRACK_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("LIFETRACK_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.Database.DSN)
	assert.Equal(t, "from-env-secret-value", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("LIFETRACK_DATABASE_URL", "postgres://env")
	t.Setenv("LIFETRACK_JWT_SECRET", "from-env-secret-value")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no database", "auth:\n  jwt_secret: 0123456789abcdef\n", "database.url"},
		{"short secret", "database:\n  url: x\nauth:\n  jwt_secret: short\n", "jwt_secret"},
		{"bad timezone", "database:\n  url: x\nauth:\n  jwt_secret: 0123456789abcdef\ntimezone: Mars/Olympus\n", "timezone"},
		{"bad yaml", "server: [", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "explicit.yaml", ResolvePath("explicit.yaml"))
	t.Setenv(EnvPath, "from-env.yaml")
	assert.Equal(t, "from-env.yaml", ResolvePath(""))
	t.Setenv(EnvPath, "")
	assert.Equal(t, DefaultPath, ResolvePath(""))
}
