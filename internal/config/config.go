package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store drivers. The memory driver is a sandbox mode: state is seeded fresh
// on every start and lost on shutdown.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds the runtime configuration, loaded from the environment.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string

	// StoreDriver selects the persistence backend: postgres or memory.
	StoreDriver string

	// SeedOnStart inserts the demo accounts if they are not present.
	SeedOnStart bool
	// ResetOnStart wipes all accounts and transactions before seeding.
	// Intended for demo/sandbox deployments only.
	ResetOnStart bool
}

// Load reads configuration from the environment, with an optional .env file.
func Load() *Config {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	return &Config{
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBName:       getEnv("DB_NAME", "gringotts"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		StoreDriver:  getEnv("STORE_DRIVER", StorePostgres),
		SeedOnStart:  getBoolEnv("SEED_ON_START", true),
		ResetOnStart: getBoolEnv("RESET_ON_START", false),
	}
}

// GetDBConnectionString builds the lib/pq connection string.
func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
