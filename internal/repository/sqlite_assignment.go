package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/costwise/internal/db"
	"github.com/alexanderramin/costwise/internal/domain"
)

const assignmentColumns = `a.id, a.wbs_node_id, a.description,
		a.cost_type_code, a.region_code, a.resource_code, a.supplier_code,
		a.best, a.likely, a.worst, a.duty_pct, a.import_content_pct, a.impact_index_pct,
		a.pert_estimate, a.std_deviation, a.created_at, a.updated_at`

// SQLiteAssignmentRepo implements AssignmentRepo using a SQLite database.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

// NewSQLiteAssignmentRepo creates a new SQLiteAssignmentRepo.
func NewSQLiteAssignmentRepo(conn db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: conn}
}

// Create inserts a and sets a.ID. The derived PertEstimate and
// StdDeviation are stored as given.
func (r *SQLiteAssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	stampNew(&a.CreatedAt, &a.UpdatedAt)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO assignments (wbs_node_id, description,
			cost_type_code, region_code, resource_code, supplier_code,
			best, likely, worst, duty_pct, import_content_pct, impact_index_pct,
			pert_estimate, std_deviation, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.WBSNodeID, a.Description,
		a.CostTypeCode, a.RegionCode, a.ResourceCode, a.SupplierCode,
		a.Best, a.Likely, a.Worst, a.DutyPct, a.ImportContentPct, a.ImpactIndexPct,
		a.PertEstimate, a.StdDeviation,
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting assignment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading assignment id: %w", err)
	}
	a.ID = id
	return nil
}

func (r *SQLiteAssignmentRepo) GetByID(ctx context.Context, id int64) (*domain.Assignment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM assignments a WHERE a.id = ?`, id)
	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assignment %d: %w", id, ErrNotFound)
	}
	return a, err
}

func (r *SQLiteAssignmentRepo) ListByNode(ctx context.Context, nodeID int64) ([]*domain.Assignment, error) {
	return r.list(ctx,
		`SELECT `+assignmentColumns+` FROM assignments a WHERE a.wbs_node_id = ? ORDER BY a.id`, nodeID)
}

func (r *SQLiteAssignmentRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.Assignment, error) {
	return r.list(ctx,
		`SELECT `+assignmentColumns+` FROM assignments a
		JOIN wbs_nodes n ON n.id = a.wbs_node_id
		WHERE n.project_id = ? ORDER BY a.id`, projectID)
}

func (r *SQLiteAssignmentRepo) Update(ctx context.Context, a *domain.Assignment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assignments SET description = ?,
			cost_type_code = ?, region_code = ?, resource_code = ?, supplier_code = ?,
			best = ?, likely = ?, worst = ?, duty_pct = ?, import_content_pct = ?, impact_index_pct = ?,
			pert_estimate = ?, std_deviation = ?, updated_at = ?
		WHERE id = ?`,
		a.Description,
		a.CostTypeCode, a.RegionCode, a.ResourceCode, a.SupplierCode,
		a.Best, a.Likely, a.Worst, a.DutyPct, a.ImportContentPct, a.ImpactIndexPct,
		a.PertEstimate, a.StdDeviation, nowUTC(),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating assignment: %w", err)
	}
	return requireOneRow(res, "assignment")
}

func (r *SQLiteAssignmentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting assignment: %w", err)
	}
	return requireOneRow(res, "assignment")
}

func (r *SQLiteAssignmentRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var out []*domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return out, nil
}

func scanAssignment(row rowScanner) (*domain.Assignment, error) {
	var a domain.Assignment
	var createdAtStr, updatedAtStr string
	err := row.Scan(
		&a.ID, &a.WBSNodeID, &a.Description,
		&a.CostTypeCode, &a.RegionCode, &a.ResourceCode, &a.SupplierCode,
		&a.Best, &a.Likely, &a.Worst, &a.DutyPct, &a.ImportContentPct, &a.ImpactIndexPct,
		&a.PertEstimate, &a.StdDeviation, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning assignment: %w", err)
	}
	a.CreatedAt, a.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
