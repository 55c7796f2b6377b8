package db

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx. Repositories are
// built on a DBTX so one repository type serves pooled reads and the
// transaction handed out by a UnitOfWork.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// UnitOfWork scopes repository work to one transaction.
type UnitOfWork interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
	// WithinReadTx always rolls back; every query in fn sees the same
	// snapshot, which keeps an aggregation pass consistent.
	WithinReadTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

type SQLiteUnitOfWork struct {
	db   *sql.DB
	read *sql.DB
}

type UnitOfWorkOption func(*SQLiteUnitOfWork)

// WithReadDB routes WithinReadTx to a separate pool, normally the one
// from OpenReadDB, so snapshot reads do not queue behind IMMEDIATE writers.
func WithReadDB(read *sql.DB) UnitOfWorkOption {
	return func(u *SQLiteUnitOfWork) {
		u.read = read
	}
}

// NewSQLiteUnitOfWork runs transactions on db. Without WithReadDB, read
// transactions use db as well.
func NewSQLiteUnitOfWork(db *sql.DB, opts ...UnitOfWorkOption) *SQLiteUnitOfWork {
	u := &SQLiteUnitOfWork{db: db, read: db}
	for _, opt := range opts {
		opt(u)
	}
	if u.read == nil {
		u.read = db
	}
	return u
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return u.run(ctx, true, fn)
}

func (u *SQLiteUnitOfWork) WithinReadTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return u.run(ctx, false, fn)
}

func (u *SQLiteUnitOfWork) run(ctx context.Context, commit bool, fn func(ctx context.Context, tx DBTX) error) (err error) {
	pool := u.db
	if !commit {
		pool = u.read
	}
	tx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	done := false
	defer func() {
		if done {
			return
		}
		// Reached on error, on a read transaction, and while unwinding a panic.
		if rbErr := tx.Rollback(); rbErr != nil && err != nil && commit {
			err = fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if !commit {
		return nil
	}
	done = true
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
