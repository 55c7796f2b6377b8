package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/costwise/internal/db"
	"github.com/alexanderramin/costwise/internal/domain"
)

// wbsNodeColumns is the canonical SELECT column list for wbs_nodes.
const wbsNodeColumns = `id, project_id, parent_id, code, title, order_index, is_milestone,
		created_at, updated_at`

// SQLiteWBSNodeRepo implements WBSNodeRepo using a SQLite database.
type SQLiteWBSNodeRepo struct {
	db db.DBTX
}

// NewSQLiteWBSNodeRepo creates a new SQLiteWBSNodeRepo.
func NewSQLiteWBSNodeRepo(conn db.DBTX) *SQLiteWBSNodeRepo {
	return &SQLiteWBSNodeRepo{db: conn}
}

// Create inserts n and sets n.ID.
func (r *SQLiteWBSNodeRepo) Create(ctx context.Context, n *domain.WBSNode) error {
	stampNew(&n.CreatedAt, &n.UpdatedAt)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO wbs_nodes (project_id, parent_id, code, title, order_index, is_milestone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ProjectID,
		nullableInt64(n.ParentID),
		n.Code,
		n.Title,
		n.OrderIndex,
		boolToInt(n.IsMilestone),
		formatTime(n.CreatedAt),
		formatTime(n.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting wbs node: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading wbs node id: %w", err)
	}
	n.ID = id
	return nil
}

func (r *SQLiteWBSNodeRepo) GetByID(ctx context.Context, id int64) (*domain.WBSNode, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+wbsNodeColumns+` FROM wbs_nodes WHERE id = ?`, id)
	n, err := scanWBSNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wbs node %d: %w", id, ErrNotFound)
	}
	return n, err
}

// ListByProject returns the project's nodes in sibling display order.
func (r *SQLiteWBSNodeRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.WBSNode, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+wbsNodeColumns+` FROM wbs_nodes WHERE project_id = ? ORDER BY order_index, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing wbs nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*domain.WBSNode
	for rows.Next() {
		n, err := scanWBSNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wbs nodes: %w", err)
	}
	return nodes, nil
}

func (r *SQLiteWBSNodeRepo) LoadTree(ctx context.Context, projectID int64) (*domain.WBSTree, error) {
	nodes, err := r.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tree, err := domain.NewWBSTree(projectID, nodes)
	if err != nil {
		return nil, fmt.Errorf("loading wbs tree: %w", err)
	}
	return tree, nil
}

func (r *SQLiteWBSNodeRepo) Update(ctx context.Context, n *domain.WBSNode) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE wbs_nodes SET parent_id = ?, code = ?, title = ?, order_index = ?, is_milestone = ?, updated_at = ?
		WHERE id = ?`,
		nullableInt64(n.ParentID),
		n.Code,
		n.Title,
		n.OrderIndex,
		boolToInt(n.IsMilestone),
		nowUTC(),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating wbs node: %w", err)
	}
	return requireOneRow(res, "wbs node")
}

// Delete removes the node; children, assignments, risks and approval data
// go with it through ON DELETE CASCADE.
func (r *SQLiteWBSNodeRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wbs_nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting wbs node: %w", err)
	}
	return requireOneRow(res, "wbs node")
}

// scanWBSNode returns sql.ErrNoRows unwrapped so callers can attach the id.
func scanWBSNode(row rowScanner) (*domain.WBSNode, error) {
	var n domain.WBSNode
	var parentID sql.NullInt64
	var isMilestone int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&n.ID, &n.ProjectID, &parentID, &n.Code, &n.Title, &n.OrderIndex, &isMilestone,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning wbs node: %w", err)
	}
	if parentID.Valid {
		p := parentID.Int64
		n.ParentID = &p
	}
	n.IsMilestone = intToBool(isMilestone)
	n.CreatedAt, n.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
