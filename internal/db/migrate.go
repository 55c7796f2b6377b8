package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent, so
// Migrate is safe to run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		code       TEXT NOT NULL,
		name       TEXT NOT NULL,
		currency   TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_code ON projects(code)`,

	`CREATE TABLE IF NOT EXISTS wbs_nodes (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id   INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id    INTEGER REFERENCES wbs_nodes(id) ON DELETE CASCADE,
		code         TEXT NOT NULL DEFAULT '',
		title        TEXT NOT NULL,
		order_index  INTEGER NOT NULL DEFAULT 0,
		is_milestone INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_wbs_nodes_project ON wbs_nodes(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_wbs_nodes_parent ON wbs_nodes(parent_id)`,

	`CREATE TABLE IF NOT EXISTS assignments (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		wbs_node_id        INTEGER NOT NULL REFERENCES wbs_nodes(id) ON DELETE CASCADE,
		description        TEXT NOT NULL DEFAULT '',
		cost_type_code     TEXT NOT NULL DEFAULT '',
		region_code        TEXT NOT NULL DEFAULT '',
		resource_code      TEXT NOT NULL DEFAULT '',
		supplier_code      TEXT NOT NULL DEFAULT '',
		best               REAL NOT NULL,
		likely             REAL NOT NULL,
		worst              REAL NOT NULL,
		duty_pct           REAL NOT NULL DEFAULT 0,
		import_content_pct REAL NOT NULL DEFAULT 0,
		impact_index_pct   REAL NOT NULL DEFAULT 0,
		pert_estimate      REAL NOT NULL DEFAULT 0,
		std_deviation      REAL NOT NULL DEFAULT 0,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_assignments_node ON assignments(wbs_node_id)`,

	`CREATE TABLE IF NOT EXISTS risks (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		wbs_node_id      INTEGER NOT NULL REFERENCES wbs_nodes(id) ON DELETE CASCADE,
		category_code    TEXT NOT NULL DEFAULT '',
		description      TEXT NOT NULL DEFAULT '',
		risk_cost        REAL NOT NULL DEFAULT 0,
		probability_code TEXT,
		severity_code    TEXT,
		risk_exposure    REAL,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_risks_node ON risks(wbs_node_id)`,

	`CREATE TABLE IF NOT EXISTS reference_items (
		table_name  TEXT NOT NULL
		            CHECK(table_name IN ('cost_type','region','resource','supplier','probability','severity')),
		code        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		active      INTEGER NOT NULL DEFAULT 1,
		weight      REAL CHECK(weight IS NULL OR (weight >= 0 AND weight <= 1)),
		PRIMARY KEY (table_name, code)
	)`,

	`CREATE TABLE IF NOT EXISTS approval_records (
		wbs_node_id        INTEGER PRIMARY KEY REFERENCES wbs_nodes(id) ON DELETE CASCADE,
		status             TEXT NOT NULL DEFAULT 'draft'
		                   CHECK(status IN ('draft','submitted','approved','rejected')),
		approver           TEXT,
		approved_at        TEXT,
		comment            TEXT NOT NULL DEFAULT '',
		estimate_revision  INTEGER NOT NULL DEFAULT 0,
		submitted_revision INTEGER,
		submitted_estimate REAL,
		version            INTEGER NOT NULL DEFAULT 1,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS approval_events (
		id                TEXT PRIMARY KEY,
		wbs_node_id       INTEGER NOT NULL REFERENCES wbs_nodes(id) ON DELETE CASCADE,
		action            TEXT NOT NULL,
		from_status       TEXT NOT NULL,
		to_status         TEXT NOT NULL,
		actor             TEXT NOT NULL DEFAULT '',
		comment           TEXT NOT NULL DEFAULT '',
		estimate_revision INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_approval_events_node ON approval_events(wbs_node_id, created_at)`,
}
