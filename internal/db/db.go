package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// OpenDB opens the SQLite database at path, creating its directory when
// needed, and applies pragmas and migrations.
//
// An in-memory database lives on a single connection, so the pool is
// capped at one; callers must not issue pool queries while holding a
// transaction from WithinTx. File databases pair this pool with
// OpenReadDB for snapshot reads.
func OpenDB(path string) (*sql.DB, error) {
	if path != MemoryPath {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	pragmas := []struct {
		stmt string
		what string
	}{
		{"PRAGMA journal_mode = WAL", "setting WAL mode"},
		{"PRAGMA foreign_keys = ON", "enabling foreign keys"},
		// Concurrent approval writers wait instead of failing with SQLITE_BUSY.
		{"PRAGMA busy_timeout = 5000", "setting busy timeout"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p.what, err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// OpenReadDB opens a query-only pool on the file database at path, which
// OpenDB must already have created and migrated. Its transactions begin
// DEFERRED, so under WAL a read snapshot never waits on a writer. Pass it
// to NewSQLiteUnitOfWork with WithReadDB.
func OpenReadDB(path string) (*sql.DB, error) {
	if path == MemoryPath {
		return nil, fmt.Errorf("opening read pool: in-memory databases share one connection")
	}
	db, err := sql.Open("sqlite", readDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening read pool: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening read pool: %w", err)
	}
	return db, nil
}

// dsn attaches per-connection pragmas for file databases; pooled
// connections do not inherit pragmas run through Exec. Write transactions
// begin IMMEDIATE so a read-then-write approval transaction waits on the
// busy timeout instead of failing its lock upgrade.
func dsn(path string) string {
	if path == MemoryPath {
		return path
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

func readDSN(path string) string {
	return path + "?_pragma=busy_timeout(5000)&_pragma=query_only(1)"
}
