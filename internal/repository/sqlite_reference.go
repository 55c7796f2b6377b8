package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/costwise/internal/db"
	"github.com/alexanderramin/costwise/internal/domain"
)

const referenceColumns = `table_name, code, description, active, weight`

// SQLiteReferenceRepo implements ReferenceRepo using a SQLite database.
type SQLiteReferenceRepo struct {
	db db.DBTX
}

// NewSQLiteReferenceRepo creates a new SQLiteReferenceRepo.
func NewSQLiteReferenceRepo(conn db.DBTX) *SQLiteReferenceRepo {
	return &SQLiteReferenceRepo{db: conn}
}

func (r *SQLiteReferenceRepo) Upsert(ctx context.Context, item *domain.ReferenceItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reference_items (table_name, code, description, active, weight)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(table_name, code) DO UPDATE SET
			description = excluded.description,
			active = excluded.active,
			weight = excluded.weight`,
		string(item.Table), item.Code, item.Description, boolToInt(item.Active), nullableFloat(item.Weight),
	)
	if err != nil {
		return fmt.Errorf("upserting %s item %q: %w", item.Table, item.Code, err)
	}
	return nil
}

func (r *SQLiteReferenceRepo) Get(ctx context.Context, table domain.ReferenceTable, code string) (*domain.ReferenceItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+referenceColumns+` FROM reference_items WHERE table_name = ? AND code = ?`,
		string(table), code)
	item, err := scanReferenceItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s item %q: %w", table, code, ErrNotFound)
	}
	return item, err
}

func (r *SQLiteReferenceRepo) List(ctx context.Context, table domain.ReferenceTable) ([]*domain.ReferenceItem, error) {
	query := `SELECT ` + referenceColumns + ` FROM reference_items`
	var args []any
	if table != "" {
		query += ` WHERE table_name = ?`
		args = append(args, string(table))
	}
	query += ` ORDER BY table_name, code`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reference items: %w", err)
	}
	defer rows.Close()

	var out []*domain.ReferenceItem
	for rows.Next() {
		item, err := scanReferenceItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reference items: %w", err)
	}
	return out, nil
}

// ResolveWeight returns a *domain.UnresolvedWeightError when the code is
// empty, unknown, inactive, or carries no usable weight.
func (r *SQLiteReferenceRepo) ResolveWeight(ctx context.Context, table domain.ReferenceTable, code string) (float64, error) {
	if code == "" {
		return 0, &domain.UnresolvedWeightError{Table: table}
	}
	item, err := r.Get(ctx, table, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, &domain.UnresolvedWeightError{Table: table, Code: code}
		}
		return 0, err
	}
	return item.ResolveWeight()
}

func scanReferenceItem(row rowScanner) (*domain.ReferenceItem, error) {
	var item domain.ReferenceItem
	var table string
	var active int
	var weight sql.NullFloat64
	if err := row.Scan(&table, &item.Code, &item.Description, &active, &weight); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning reference item: %w", err)
	}
	item.Table = domain.ReferenceTable(table)
	item.Active = intToBool(active)
	if weight.Valid {
		w := weight.Float64
		item.Weight = &w
	}
	return &item, nil
}
