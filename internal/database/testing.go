package database

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/yourusername/prop-scout/internal/config"
)

// SetupTestDB creates a test database connection from PROP_SCOUT_TEST_DB_*
// environment variables. Tests calling it are skipped when no test database
// is configured.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	host := os.Getenv("PROP_SCOUT_TEST_DB_HOST")
	if host == "" {
		t.Skip("PROP_SCOUT_TEST_DB_HOST not set; skipping database integration test")
	}

	port := 5432
	if p := os.Getenv("PROP_SCOUT_TEST_DB_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			t.Fatalf("invalid PROP_SCOUT_TEST_DB_PORT: %v", err)
		}
		port = parsed
	}

	cfg := &config.DatabaseConfig{
		Host:           host,
		Port:           port,
		Name:           envOrDefault("PROP_SCOUT_TEST_DB_NAME", "prop_scout_test"),
		User:           envOrDefault("PROP_SCOUT_TEST_DB_USER", "postgres"),
		Password:       os.Getenv("PROP_SCOUT_TEST_DB_PASSWORD"),
		SSLMode:        "disable",
		MaxConnections: 4,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to apply test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
