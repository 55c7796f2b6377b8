package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/costwise/internal/db"
	"github.com/alexanderramin/costwise/internal/domain"
)

const riskColumns = `r.id, r.wbs_node_id, r.category_code, r.description, r.risk_cost,
		r.probability_code, r.severity_code, r.risk_exposure, r.created_at, r.updated_at`

// SQLiteRiskRepo implements RiskRepo using a SQLite database.
type SQLiteRiskRepo struct {
	db db.DBTX
}

// NewSQLiteRiskRepo creates a new SQLiteRiskRepo.
func NewSQLiteRiskRepo(conn db.DBTX) *SQLiteRiskRepo {
	return &SQLiteRiskRepo{db: conn}
}

// Create inserts rk and sets rk.ID. Unassessed codes are stored as NULL.
func (r *SQLiteRiskRepo) Create(ctx context.Context, rk *domain.Risk) error {
	stampNew(&rk.CreatedAt, &rk.UpdatedAt)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO risks (wbs_node_id, category_code, description, risk_cost,
			probability_code, severity_code, risk_exposure, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rk.WBSNodeID, rk.CategoryCode, rk.Description, rk.RiskCost,
		nullableString(rk.ProbabilityCode), nullableString(rk.SeverityCode), nullableFloat(rk.RiskExposure),
		formatTime(rk.CreatedAt), formatTime(rk.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting risk: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading risk id: %w", err)
	}
	rk.ID = id
	return nil
}

func (r *SQLiteRiskRepo) GetByID(ctx context.Context, id int64) (*domain.Risk, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+riskColumns+` FROM risks r WHERE r.id = ?`, id)
	rk, err := scanRisk(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("risk %d: %w", id, ErrNotFound)
	}
	return rk, err
}

func (r *SQLiteRiskRepo) ListByNode(ctx context.Context, nodeID int64) ([]*domain.Risk, error) {
	return r.list(ctx, `SELECT `+riskColumns+` FROM risks r WHERE r.wbs_node_id = ? ORDER BY r.id`, nodeID)
}

func (r *SQLiteRiskRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.Risk, error) {
	return r.list(ctx,
		`SELECT `+riskColumns+` FROM risks r
		JOIN wbs_nodes n ON n.id = r.wbs_node_id
		WHERE n.project_id = ? ORDER BY r.id`, projectID)
}

func (r *SQLiteRiskRepo) Update(ctx context.Context, rk *domain.Risk) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE risks SET category_code = ?, description = ?, risk_cost = ?,
			probability_code = ?, severity_code = ?, risk_exposure = ?, updated_at = ?
		WHERE id = ?`,
		rk.CategoryCode, rk.Description, rk.RiskCost,
		nullableString(rk.ProbabilityCode), nullableString(rk.SeverityCode), nullableFloat(rk.RiskExposure),
		nowUTC(), rk.ID,
	)
	if err != nil {
		return fmt.Errorf("updating risk: %w", err)
	}
	return requireOneRow(res, "risk")
}

func (r *SQLiteRiskRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM risks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting risk: %w", err)
	}
	return requireOneRow(res, "risk")
}

func (r *SQLiteRiskRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Risk, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing risks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Risk
	for rows.Next() {
		rk, err := scanRisk(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating risks: %w", err)
	}
	return out, nil
}

func scanRisk(row rowScanner) (*domain.Risk, error) {
	var rk domain.Risk
	var probability, severity sql.NullString
	var exposure sql.NullFloat64
	var createdAtStr, updatedAtStr string
	err := row.Scan(
		&rk.ID, &rk.WBSNodeID, &rk.CategoryCode, &rk.Description, &rk.RiskCost,
		&probability, &severity, &exposure, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning risk: %w", err)
	}
	rk.ProbabilityCode = probability.String
	rk.SeverityCode = severity.String
	if exposure.Valid {
		v := exposure.Float64
		rk.RiskExposure = &v
	}
	rk.CreatedAt, rk.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &rk, nil
}
