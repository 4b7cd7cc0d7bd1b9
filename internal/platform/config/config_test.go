package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_PORT", "")
	cfg := Load()

	assert.Same(t, cfg, AppConfig)
	assert.Equal(t, "", cfg.APIPort, "an explicitly empty variable wins over the default")
	assert.Equal(t, 72*time.Hour, cfg.JWTExp)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Contains(t, cfg.DBConnStr, "dbname=pencraft")
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("SEED_DATA", "false")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := Load()
	assert.Equal(t, "9090", cfg.APIPort)
	assert.Equal(t, 2*time.Hour, cfg.JWTExp)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.True(t, cfg.MinioUseSSL)
	assert.False(t, cfg.SeedData)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}
