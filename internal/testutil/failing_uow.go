package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/costwise/internal/db"
)

// FailingWriteUoW commits like the SQLite unit of work, except that the
// first write whose SQL contains Statement returns Err. Writes before it
// run normally, so tests can prove a multi-table write is all-or-nothing.
type FailingWriteUoW struct {
	DB        *sql.DB
	Statement string
	Err       error

	// Failed reports whether the injected error fired.
	Failed bool
}

func (u *FailingWriteUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingWrites{DBTX: tx, uow: u})
	})
}

func (u *FailingWriteUoW) WithinReadTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinReadTx(ctx, fn)
}

type failingWrites struct {
	db.DBTX
	uow *FailingWriteUoW
}

func (f *failingWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if !f.uow.Failed && strings.Contains(query, f.uow.Statement) {
		f.uow.Failed = true
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
