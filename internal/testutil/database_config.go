package testutil

import (
	"fmt"
	"os"
)

// DatabaseConfig holds configuration for connecting to an existing server
// instead of a container.
type DatabaseConfig struct {
	URL string
}

// GetDatabaseConfig reads the admin database from the environment.
// STRATA_TEST_DATABASE_URL wins over the individual STRATA_TEST_DATABASE_*
// components. An empty config signals to use testcontainers.
func GetDatabaseConfig() DatabaseConfig {
	if url := os.Getenv("STRATA_TEST_DATABASE_URL"); url != "" {
		return DatabaseConfig{URL: url}
	}

	host := os.Getenv("STRATA_TEST_DATABASE_HOST")
	if host != "" {
		return DatabaseConfig{
			URL: buildDatabaseURL(
				getEnv("STRATA_TEST_DATABASE_USER", "postgres"),
				getEnv("STRATA_TEST_DATABASE_PASSWORD", ""),
				host,
				getEnv("STRATA_TEST_DATABASE_PORT", "5432"),
				getEnv("STRATA_TEST_DATABASE_NAME", "postgres"),
				getEnv("STRATA_TEST_DATABASE_SSLMODE", "disable"),
			),
		}
	}

	return DatabaseConfig{}
}

// buildDatabaseURL constructs a PostgreSQL connection string.
func buildDatabaseURL(user, password, host, port, dbname, sslmode string) string {
	if password != "" {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			user, password, host, port, dbname, sslmode)
	}
	return fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=%s",
		user, host, port, dbname, sslmode)
}

// getEnv gets an environment variable with a fallback default value.
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
