package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, 5, cfg.Shop.LowStockThreshold)
	assert.False(t, cfg.Sheets.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "30m")
	t.Setenv("SHEETS_TIMEOUT", "12")
	t.Setenv("CORS_ORIGINS", "https://otakughor.com, https://admin.otakughor.com")
	t.Setenv("SHEETS_WEBHOOK_URL", "https://script.google.com/macros/s/abc/exec")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 12*time.Second, cfg.Sheets.Timeout)
	assert.Equal(t, []string{"https://otakughor.com", "https://admin.otakughor.com"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Sheets.Enabled())
}

func TestValidateRejectsDefaultSecretsInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a")
	t.Setenv("JWT_USER_SECRET", "b")
	t.Setenv("JWT_REFRESH_SECRET", "c")
	_, err = Load()
	assert.NoError(t, err)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")
	_, err := Load()
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	d := DatabaseConfig{Dialect: "sqlite", SQLitePath: "/tmp/x.db"}
	assert.Equal(t, "/tmp/x.db", d.DSN())

	d = DatabaseConfig{Dialect: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", Database: "og", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=og sslmode=disable", d.DSN())

	d = DatabaseConfig{Dialect: "postgres", Host: "db", Database: "og"}
	assert.Equal(t, "host=db dbname=og", d.DSN())

	d = DatabaseConfig{Dialect: "sqlite"}
	assert.Equal(t, "file::memory:?cache=shared", d.DSN())
}
