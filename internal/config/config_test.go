package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "bank")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "vault")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SEED_ON_START", "false")
	t.Setenv("RESET_ON_START", "true")

	cfg := Load()

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.False(t, cfg.SeedOnStart)
	assert.True(t, cfg.ResetOnStart)
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"SERVER_PORT", "STORE_DRIVER", "SEED_ON_START", "RESET_ON_START",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.True(t, cfg.SeedOnStart)
	assert.False(t, cfg.ResetOnStart)
}

func TestBoolEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("RESET_ON_START", "definitely")

	cfg := Load()
	assert.False(t, cfg.ResetOnStart)
}

func TestGetDBConnectionString(t *testing.T) {
	cfg := &Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBPassword: "password",
		DBName:     "gringotts",
		DBSSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=password dbname=gringotts sslmode=disable",
		cfg.GetDBConnectionString())
}
