package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/costwise/internal/db"
	"github.com/alexanderramin/costwise/internal/domain"
)

const approvalColumns = `a.wbs_node_id, a.status, a.approver, a.approved_at, a.comment,
		a.estimate_revision, a.submitted_revision, a.submitted_estimate, a.version, a.updated_at`

const approvalEventColumns = `id, wbs_node_id, action, from_status, to_status, actor, comment,
		estimate_revision, created_at`

// SQLiteApprovalRepo implements ApprovalRepo using a SQLite database.
type SQLiteApprovalRepo struct {
	db db.DBTX
}

// NewSQLiteApprovalRepo creates a new SQLiteApprovalRepo.
func NewSQLiteApprovalRepo(conn db.DBTX) *SQLiteApprovalRepo {
	return &SQLiteApprovalRepo{db: conn}
}

func (r *SQLiteApprovalRepo) Get(ctx context.Context, nodeID int64) (*domain.ApprovalRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+approvalColumns+` FROM approval_records a WHERE a.wbs_node_id = ?`, nodeID)
	rec, err := scanApprovalRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewApprovalRecord(nodeID), nil
	}
	return rec, err
}

// ListByProject returns the stored records of the project's nodes keyed by
// node id. Nodes without a stored record are absent from the map.
func (r *SQLiteApprovalRepo) ListByProject(ctx context.Context, projectID int64) (map[int64]*domain.ApprovalRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+approvalColumns+` FROM approval_records a
		JOIN wbs_nodes n ON n.id = a.wbs_node_id
		WHERE n.project_id = ?`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing approval records: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]*domain.ApprovalRecord)
	for rows.Next() {
		rec, err := scanApprovalRecord(rows)
		if err != nil {
			return nil, err
		}
		out[rec.WBSNodeID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating approval records: %w", err)
	}
	return out, nil
}

func (r *SQLiteApprovalRepo) Save(ctx context.Context, rec *domain.ApprovalRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	}
	args := []any{
		string(rec.Status),
		nullableStringPtr(rec.Approver),
		nullableTimeToString(rec.ApprovedAt, time.RFC3339),
		rec.Comment,
		rec.EstimateRevision,
		nullableInt64(rec.SubmittedRevision),
		nullableFloat(rec.SubmittedEstimate),
		formatTime(rec.UpdatedAt),
	}

	var res sql.Result
	var err error
	if rec.Version == 0 {
		res, err = r.db.ExecContext(ctx,
			`INSERT INTO approval_records (status, approver, approved_at, comment,
				estimate_revision, submitted_revision, submitted_estimate, updated_at, wbs_node_id, version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
			ON CONFLICT(wbs_node_id) DO NOTHING`,
			append(args, rec.WBSNodeID)...)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE approval_records SET status = ?, approver = ?, approved_at = ?, comment = ?,
				estimate_revision = ?, submitted_revision = ?, submitted_estimate = ?, updated_at = ?,
				version = version + 1
			WHERE wbs_node_id = ? AND version = ?`,
			append(args, rec.WBSNodeID, rec.Version)...)
	}
	if err != nil {
		return fmt.Errorf("saving approval record for wbs node %d: %w", rec.WBSNodeID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("approval record for wbs node %d at version %d: %w", rec.WBSNodeID, rec.Version, ErrConflict)
	}
	rec.Version++
	return nil
}

func (r *SQLiteApprovalRepo) AppendEvent(ctx context.Context, e *domain.ApprovalEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO approval_events (`+approvalEventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.WBSNodeID, string(e.Action), string(e.FromStatus), string(e.ToStatus),
		e.Actor, e.Comment, e.EstimateRevision, formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting approval event: %w", err)
	}
	return nil
}

// ListEvents returns the node's approval history, oldest first.
func (r *SQLiteApprovalRepo) ListEvents(ctx context.Context, nodeID int64) ([]*domain.ApprovalEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+approvalEventColumns+` FROM approval_events
		WHERE wbs_node_id = ? ORDER BY created_at, rowid`, nodeID)
	if err != nil {
		return nil, fmt.Errorf("listing approval events: %w", err)
	}
	defer rows.Close()

	var out []*domain.ApprovalEvent
	for rows.Next() {
		var e domain.ApprovalEvent
		var action, from, to, createdAtStr string
		if err := rows.Scan(&e.ID, &e.WBSNodeID, &action, &from, &to, &e.Actor, &e.Comment,
			&e.EstimateRevision, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning approval event: %w", err)
		}
		e.Action = domain.ApprovalAction(action)
		e.FromStatus = domain.ApprovalStatus(from)
		e.ToStatus = domain.ApprovalStatus(to)
		if e.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating approval events: %w", err)
	}
	return out, nil
}

func scanApprovalRecord(row rowScanner) (*domain.ApprovalRecord, error) {
	var rec domain.ApprovalRecord
	var status, updatedAtStr string
	var approver, approvedAt sql.NullString
	var submittedRevision sql.NullInt64
	var submittedEstimate sql.NullFloat64

	err := row.Scan(
		&rec.WBSNodeID, &status, &approver, &approvedAt, &rec.Comment,
		&rec.EstimateRevision, &submittedRevision, &submittedEstimate, &rec.Version, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning approval record: %w", err)
	}
	rec.Status = domain.ApprovalStatus(status)
	if approver.Valid {
		a := approver.String
		rec.Approver = &a
	}
	rec.ApprovedAt = parseNullableTime(approvedAt, time.RFC3339)
	if submittedRevision.Valid {
		v := submittedRevision.Int64
		rec.SubmittedRevision = &v
	}
	if submittedEstimate.Valid {
		v := submittedEstimate.Float64
		rec.SubmittedEstimate = &v
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &rec, nil
}
