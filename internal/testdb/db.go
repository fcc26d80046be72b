//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/flashdeck/internal/platform/postgres"
	"github.com/pressly/goose/v3"
)

// TestTimeout bounds the connection check and the schema reset.
const TestTimeout = 5 * time.Second

// Tables in the order they are truncated.
var tables = []string{"study_queues", "flashcards", "decks"}

// goose keeps package-level settings, so migrations run once per process.
var migrateOnce sync.Once
var migrateErr error

// GetTestDatabaseURL returns the database URL for integration tests, or ""
// when none is configured.
func GetTestDatabaseURL() string {
	for _, name := range []string{"FLASHDECK_TEST_DB_URL", "DATABASE_URL"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// GetTestDBWithT opens the test database, applies the embedded migrations
// and empties every table. The test is skipped when no database URL is set
// and the connection is closed when the test ends.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("FLASHDECK_TEST_DB_URL or DATABASE_URL not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.OpenDB(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { CleanupDB(t, db) })

	migrateOnce.Do(func() { migrateErr = ApplyMigrations(db) })
	if migrateErr != nil {
		t.Fatalf("Failed to migrate test database: %v", migrateErr)
	}

	if err := ResetTables(ctx, db); err != nil {
		t.Fatalf("Failed to reset test database: %v", err)
	}

	return db
}

// ApplyMigrations brings db up to the latest embedded schema version.
func ApplyMigrations(db *sql.DB) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(postgres.Migrations)
	goose.SetTableName(postgres.MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, postgres.MigrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// ResetTables removes every row and restarts the id sequences.
func ResetTables(ctx context.Context, db *sql.DB) error {
	query := "TRUNCATE "
	for i, table := range tables {
		if i > 0 {
			query += ", "
		}
		query += table
	}
	query += " RESTART IDENTITY CASCADE"

	_, err := db.ExecContext(ctx, query)
	return err
}

// CleanupDB closes db, logging any error.
func CleanupDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if db == nil {
		return
	}

	if err := db.Close(); err != nil {
		t.Logf("Warning: failed to close database connection: %v", err)
	}
}
