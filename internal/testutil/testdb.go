package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/costwise/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewFileTestDB creates a migrated SQLite file in a temp directory and
// returns its write pool and its query-only read pool. Unlike :memory:,
// several connections see the same data, so readers and writers really
// overlap.
func NewFileTestDB(t *testing.T) (write, read *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "costwise.db")
	write, err := db.OpenDB(path)
	if err != nil {
		t.Fatalf("failed to create file test database: %v", err)
	}
	t.Cleanup(func() { write.Close() })
	read, err = db.OpenReadDB(path)
	if err != nil {
		t.Fatalf("failed to open read pool: %v", err)
	}
	t.Cleanup(func() { read.Close() })
	return write, read
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// SeedWeights stores the probability and severity weights used across the
// test suites: LIKELY 0.4, RARE 0.1, MAJOR 0.5, MINOR 0.2.
func SeedWeights(t *testing.T, database *sql.DB) {
	t.Helper()
	rows := []struct {
		table  string
		code   string
		weight float64
	}{
		{"probability", "LIKELY", 0.4},
		{"probability", "RARE", 0.1},
		{"severity", "MAJOR", 0.5},
		{"severity", "MINOR", 0.2},
	}
	for _, r := range rows {
		_, err := database.Exec(
			`INSERT INTO reference_items (table_name, code, description, active, weight) VALUES (?, ?, '', 1, ?)`,
			r.table, r.code, r.weight)
		if err != nil {
			t.Fatalf("seeding %s weight %s: %v", r.table, r.code, err)
		}
	}
}
