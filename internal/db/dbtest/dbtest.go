// Package dbtest provides a migrated in-memory SQLite database for tests.
package dbtest

import (
	"database/sql"
	"testing"

	"github.com/yusufkecer/bookshelf-backend/internal/db"
	"github.com/yusufkecer/bookshelf-backend/internal/logger"
)

// New opens a fresh in-memory database with all migrations applied.
// It is closed when the test finishes.
func New(t testing.TB) *sql.DB {
	t.Helper()

	database, err := db.Open("sqlite3", "file::memory:?_foreign_keys=on", logger.Discard())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	if err := db.RunMigrations(database, db.SQLite, logger.Discard()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return database
}
